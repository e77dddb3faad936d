// Package config loads sheetd's runtime configuration from compiled
// defaults, an optional YAML file resolved through the XDG base
// directories, and finally CLI flags, in that precedence order.
package config

import (
	"flag"
	"os"

	"github.com/adrg/xdg"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds every runtime-tunable setting.
type Config struct {
	Addr     string `yaml:"addr"`
	LogLevel string `yaml:"log_level"`
	SeedPath string `yaml:"seed_path"`
}

func defaults() Config {
	return Config{
		Addr:     "127.0.0.1:7050",
		LogLevel: "info",
	}
}

// DefaultPath returns the XDG config file path sheetd reads unless
// overridden with --config or SHEETD_CONFIG.
func DefaultPath() (string, error) {
	return xdg.ConfigFile("sheetd/config.yaml")
}

// Load applies defaults, then an optional YAML file, then flags parsed from
// args, in that order. A missing config file is not an error; a malformed
// one is.
func Load(args []string) (Config, error) {
	cfg := defaults()

	fs := flag.NewFlagSet("sheetd", flag.ContinueOnError)
	configPath := fs.String("config", os.Getenv("SHEETD_CONFIG"), "path to YAML config file")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error")
	seedPath := fs.String("seed", "", "path to an .xlsb file to seed the grid from")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	path := *configPath
	if path == "" {
		defaultPath, err := DefaultPath()
		if err == nil {
			path = defaultPath
		}
	}
	if path != "" {
		if err := mergeFile(&cfg, path); err != nil && !os.IsNotExist(err) {
			return Config{}, errors.Wrapf(err, "loading config file %q", path)
		}
	}

	if env := os.Getenv("SHEETD_LOG_LEVEL"); env != "" {
		cfg.LogLevel = env
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *seedPath != "" {
		cfg.SeedPath = *seedPath
	}
	if rest := fs.Args(); len(rest) > 0 {
		cfg.Addr = rest[0]
	}

	return cfg, nil
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
