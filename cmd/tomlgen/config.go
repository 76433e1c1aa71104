package main

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configName = ".tomlgen"
	envPrefix  = "TOMLGEN"
)

// Config holds the render inputs after flags, environment, and the config
// file have been merged, in that order of precedence.
type Config struct {
	Schema    string            `mapstructure:"schema"`
	Component string            `mapstructure:"component"`
	Value     string            `mapstructure:"value"`
	Output    string            `mapstructure:"output"`
	Formats   map[string]string `mapstructure:"formats"`
}

// loadConfig reads .tomlgen.yaml from the working directory, or path when
// set. A missing default config file is not an error.
func loadConfig(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	for key, flag := range map[string]string{
		"schema":    "schema",
		"component": "openapi-component",
		"value":     "value",
		"output":    "output",
	} {
		if f := flags.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("config: bind flag %s: %w", flag, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if f := flags.Lookup("format"); f != nil && f.Changed {
		overrides, err := flags.GetStringToString("format")
		if err != nil {
			return nil, fmt.Errorf("config: format flag: %w", err)
		}
		if cfg.Formats == nil {
			cfg.Formats = make(map[string]string, len(overrides))
		}
		maps.Copy(cfg.Formats, overrides)
	}

	cfg.Schema = strings.TrimSpace(cfg.Schema)
	if cfg.Schema == "" {
		return nil, errors.New("config: a schema is required (--schema or schema in .tomlgen.yaml)")
	}
	return &cfg, nil
}
