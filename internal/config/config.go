// Package config loads the simulator's TOML configuration file, the way
// the teacher's config package loads its own: defaults first, overridden by
// whatever the file on disk actually sets, with flags always winning over
// both (applied by the caller after Load).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config mirrors spec.md's CLI knobs so a file can set them without
// repeating flags on every invocation.
type Config struct {
	Execution struct {
		DefaultMemSize   string `toml:"default_mem_size"`
		DefaultExecLimit string `toml:"default_exec_limit"`
		MHartID          uint32 `toml:"mhartid"`
	} `toml:"execution"`

	Display struct {
		BytesPerLine int    `toml:"bytes_per_line"`
		NumberFormat string `toml:"number_format"`
	} `toml:"display"`

	Debugger struct {
		HistorySize   int  `toml:"history_size"`
		ShowRegisters bool `toml:"show_registers"`
	} `toml:"debugger"`
}

// ConfigError reports a failure to read or parse a config file, carrying
// the path involved the way the teacher's parser.Error carries a Position.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// DefaultConfig returns the hardcoded defaults, used when no config file is
// found or one is explicitly requested without overrides.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.DefaultMemSize = "0x100"
	cfg.Execution.DefaultExecLimit = "0x0"
	cfg.Execution.MHartID = 0

	cfg.Display.BytesPerLine = 16
	cfg.Display.NumberFormat = "hex"

	cfg.Debugger.HistorySize = 1000
	cfg.Debugger.ShowRegisters = false

	return cfg
}

// DefaultConfigPath returns the search path used when -c isn't given:
// ./rv32i.toml, falling back to $XDG_CONFIG_HOME/rv32i/config.toml.
func DefaultConfigPath() string {
	if _, err := os.Stat("rv32i.toml"); err == nil {
		return "rv32i.toml"
	}

	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "rv32i.toml"
		}
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "rv32i", "config.toml")
}

// Load reads the config file at the default search path, returning
// defaults unchanged if no file exists there.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom reads the config file at path, returning defaults unchanged if
// the file doesn't exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}
	return cfg, nil
}
