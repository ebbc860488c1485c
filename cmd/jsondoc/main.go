// Command jsondoc formats, validates, merges, queries and converts JSON
// documents.
package main

import (
	"fmt"
	"os"

	"github.com/cybergodev/jsondoc"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "jsondoc: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "jsondoc",
		Usage: "format, validate, merge, query and convert JSON documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the configuration file",
			},
			&cli.BoolFlag{Name: "simple", Usage: "accept bare identifier keys"},
			&cli.BoolFlag{Name: "comment", Usage: "accept /* */ and // comments"},
			&cli.BoolFlag{Name: "squote", Usage: "accept single-quoted strings"},
			&cli.BoolFlag{Name: "unstrict", Usage: "accept every leniency plus trailing commas"},
			&cli.IntFlag{Name: "workers", Usage: "files parsed in parallel by validate"},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "log level (debug, info, warn, error)",
			},
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			fmtCommand,
			validateCommand,
			mergeCommand,
			queryCommand,
			yamlCommand,
		},
	}
}

// setupLogging sends the library's logs to stderr in console format
func setupLogging(c *cli.Context) error {
	level, err := zerolog.ParseLevel(c.String("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.String("log-level"), err)
	}
	out := zerolog.ConsoleWriter{Out: c.App.ErrWriter, TimeFormat: "15:04:05"}
	jsondoc.SetLogger(zerolog.New(out).Level(level).With().Timestamp().Logger())
	return nil
}
