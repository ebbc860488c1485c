package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/cybergodev/jsondoc"
	"github.com/urfave/cli/v2"
)

var (
	fmtCommand = &cli.Command{
		Name:      "fmt",
		Usage:     "parse documents and print them as strict JSON",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "pretty", Aliases: []string{"p"}, Usage: "indent the output"},
			&cli.StringFlag{Name: "indent", Value: "  ", Usage: "indent unit for --pretty"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write to a file instead of stdout (one input only)"},
		},
		Action: fmtCmd,
	}

	validateCommand = &cli.Command{
		Name:      "validate",
		Usage:     "check that documents parse",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "stats", Usage: "print timing and failure counts after the results"},
		},
		Action: validateCmd,
	}

	mergeCommand = &cli.Command{
		Name:      "merge",
		Usage:     "deep-merge documents left to right and print the result",
		ArgsUsage: "BASE OVERRIDE...",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "pretty", Aliases: []string{"p"}, Usage: "indent the output"},
		},
		Action: mergeCmd,
	}

	queryCommand = &cli.Command{
		Name:      "query",
		Usage:     "evaluate an expression against a document",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "expr", Aliases: []string{"e"}, Required: true, Usage: "expr-lang expression; the document is bound to doc"},
			&cli.BoolFlag{Name: "pretty", Aliases: []string{"p"}, Usage: "indent the output"},
		},
		Action: queryCmd,
	}

	yamlCommand = &cli.Command{
		Name:      "yaml",
		Usage:     "print a document as YAML",
		ArgsUsage: "FILE",
		Action:    yamlCmd,
	}
)

func fmtCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return errors.New("fmt: at least one FILE is required")
	}

	if out := c.String("output"); out != "" {
		if len(paths) != 1 {
			return errors.New("fmt: --output takes exactly one FILE")
		}
		doc, err := jsondoc.ReadDocument(paths[0], cfg)
		if err != nil {
			return err
		}
		defer doc.Release()
		return jsondoc.WriteDocument(out, doc, cfg)
	}

	for _, path := range paths {
		doc, err := jsondoc.ReadDocument(path, cfg)
		if err != nil {
			return err
		}
		err = printValue(c.App.Writer, doc, cfg)
		doc.Release()
		if err != nil {
			return err
		}
	}
	return nil
}

func validateCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	paths := c.Args().Slice()
	if len(paths) == 0 {
		return errors.New("validate: at least one FILE is required")
	}

	results, stats, err := jsondoc.ParseFilesStats(c.Context, paths, cfg)
	defer jsondoc.ReleaseResults(results)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Err == nil {
			fmt.Fprintf(c.App.Writer, "ok    %s\n", r.Path)
			continue
		}
		failed++
		var pe *jsondoc.ParseError
		if errors.As(r.Err, &pe) {
			fmt.Fprintf(c.App.Writer, "FAIL  %s: offset %d: %s (%s)\n", r.Path, pe.Offset, pe.Message, pe.Code)
		} else {
			fmt.Fprintf(c.App.Writer, "FAIL  %s: %v\n", r.Path, r.Err)
		}
	}
	if c.Bool("stats") {
		fmt.Fprintln(c.App.Writer, stats.Summary())
		for kind, n := range stats.Failures {
			fmt.Fprintf(c.App.Writer, "  %-8s %d\n", kind, n)
		}
	}
	if failed > 0 {
		return fmt.Errorf("validate: %d of %d files failed", failed, len(results))
	}
	return nil
}

func mergeCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	paths := c.Args().Slice()
	if len(paths) < 2 {
		return errors.New("merge: need a BASE and at least one OVERRIDE file")
	}

	base, err := jsondoc.ReadDocument(paths[0], cfg)
	if err != nil {
		return err
	}
	defer base.Release()

	for _, path := range paths[1:] {
		next, err := jsondoc.ReadDocument(path, cfg)
		if err != nil {
			return err
		}
		base.Merge(next)
		next.Release()
	}
	return printValue(c.App.Writer, base, cfg)
}

func queryCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.NArg() != 1 {
		return errors.New("query: exactly one FILE is required")
	}

	doc, err := jsondoc.ReadDocument(c.Args().First(), cfg)
	if err != nil {
		return err
	}
	defer doc.Release()

	result, err := jsondoc.Query(doc, c.String("expr"))
	if err != nil {
		return err
	}
	defer result.Release()
	return printValue(c.App.Writer, result, cfg)
}

func yamlCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.NArg() != 1 {
		return errors.New("yaml: exactly one FILE is required")
	}

	doc, err := jsondoc.ReadDocument(c.Args().First(), cfg)
	if err != nil {
		return err
	}
	defer doc.Release()

	out, err := jsondoc.ToYAML(doc)
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write(out)
	return err
}

func printValue(w io.Writer, v jsondoc.Value, cfg *jsondoc.Config) error {
	if err := jsondoc.WriteTo(w, v, cfg); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
