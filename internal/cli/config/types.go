// Package config provides configuration management for the lomap CLI.
//
// This package extends the shared project settings from pkg/core
// with CLI-specific fields (output, logging, server).
package config

import (
	sharedcfg "github.com/uhco-curriculum/lomap/internal/config"
	"github.com/uhco-curriculum/lomap/pkg/core"
)


// ServerConfig holds configuration for the HTTP API.
type ServerConfig struct {
	Addr  string `koanf:"addr"`
	Watch bool   `koanf:"watch"`
}

// Config holds all CLI configuration options.
type Config struct {
	core.ProjectConfig `koanf:",squash"`

	Verbose      bool         `koanf:"verbose"`
	OutputFormat string       `koanf:"output"`
	LogFormat    string       `koanf:"log_format"`
	Server       ServerConfig `koanf:"server"`

	// ProjectRoot is the directory relative paths were resolved against
	ProjectRoot string `koanf:"-"`
}

// Project returns the shared project settings.
func (c *Config) Project() *core.ProjectConfig {
	return &c.ProjectConfig
}

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultStateFile = sharedcfg.DefaultStatePath
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogFormat = "text"
)

// Default returns a config holding only defaults, resolved against the current directory.
func Default() *Config {
	cfg := &Config{
		OutputFormat: DefaultOutput,
		LogFormat:    DefaultLogFormat,
		Server:       ServerConfig{Addr: sharedcfg.DefaultAddr},
	}
	sharedcfg.ApplyDefaults(&cfg.ProjectConfig)
	return cfg
}
