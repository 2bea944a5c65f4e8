// Package config loads the optional driver configuration file (.loxrc.yaml).
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable that may point at a config file.
const EnvVar = "LOX_CONFIG"

// DefaultFile is the config file name looked up in the user's home directory.
const DefaultFile = ".loxrc.yaml"

// ColorMode controls coloured diagnostics.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Config holds the settings of the lox driver.
type Config struct {
	Prompt             string    `yaml:"prompt"`
	ContinuationPrompt string    `yaml:"continuation_prompt"`
	HistoryFile        string    `yaml:"history_file"`
	Color              ColorMode `yaml:"color"`
	Trace              bool      `yaml:"trace"`

	// Path is the file the config was read from; empty for defaults.
	Path string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{
		Prompt:             "> ",
		ContinuationPrompt: "... ",
		Color:              ColorAuto,
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.HistoryFile = filepath.Join(home, ".lox_history")
	}
	return cfg
}

// Load reads the config from path. An empty path consults $LOX_CONFIG and
// then ~/.loxrc.yaml; a missing default file yields the defaults, while a
// missing explicitly named file is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = os.Getenv(EnvVar)
		explicit = path != ""
	}
	if !explicit {
		home, err := os.UserHomeDir()
		if err != nil {
			return Default(), nil
		}
		path = filepath.Join(home, DefaultFile)
	}

	file, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	cfg, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Decode reads a YAML config from r on top of the defaults. Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	case "":
		c.Color = ColorAuto
	default:
		return fmt.Errorf("color: invalid value %q (want auto, always or never)", c.Color)
	}
	return nil
}
