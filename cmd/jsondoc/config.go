package main

import (
	"github.com/cybergodev/jsondoc"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
)

// loadConfig builds the parser and dumper configuration from, in rising
// precedence: defaults, a config file, JSONDOC_* environment variables and
// command-line flags.
func loadConfig(c *cli.Context) (*jsondoc.Config, error) {
	cfg := jsondoc.DefaultConfig()

	v := viper.New()
	if path := c.String("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("jsondoc")        // name of config file (without extension)
		v.AddConfigPath(".")              // look for config in the working directory
		v.AddConfigPath("$HOME/.jsondoc") // then in the user's config directory
	}
	v.SetEnvPrefix("JSONDOC") // will be uppercased automatically, JSONDOC_...
	v.AutomaticEnv()

	// Unmarshal only sees environment values for keys viper already knows
	defaults := map[string]any{
		"simple":           cfg.Simple,
		"comment":          cfg.Comment,
		"squote":           cfg.SQuote,
		"unstrict":         cfg.Unstrict,
		"max_object_depth": cfg.MaxObjectDepth,
		"max_array_depth":  cfg.MaxArrayDepth,
		"max_input_size":   cfg.MaxInputSize,
		"pretty":           cfg.Pretty,
		"prefix":           cfg.Prefix,
		"indent":           cfg.Indent,
		"workers":          cfg.Workers,
	}
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	for name, field := range map[string]*bool{
		"simple":   &cfg.Simple,
		"comment":  &cfg.Comment,
		"squote":   &cfg.SQuote,
		"unstrict": &cfg.Unstrict,
		"pretty":   &cfg.Pretty,
	} {
		if c.IsSet(name) {
			*field = c.Bool(name)
		}
	}
	if c.IsSet("indent") {
		cfg.Indent = c.String("indent")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
