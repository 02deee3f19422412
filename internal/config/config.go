// Package config loads the holdem-equity HCL configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete configuration
type Config struct {
	Engine EngineConfig
	Cache  CacheConfig
	Store  StoreConfig
	Log    LogConfig
}

// EngineConfig tunes enumeration
type EngineConfig struct {
	Workers           int `hcl:"workers,optional"`
	ChunkSize         int `hcl:"chunk_size,optional"`
	ParallelThreshold int `hcl:"parallel_threshold,optional"`
}

// CacheConfig locates the seven-card cache file. When Enabled is false the
// file is never read and hands are evaluated directly.
type CacheConfig struct {
	Path    string `hcl:"path,optional"`
	Enabled bool   `hcl:"enabled,optional"`
}

// StoreConfig selects the matchup database
type StoreConfig struct {
	Driver string `hcl:"driver,optional"`
	DSN    string `hcl:"dsn,optional"`
}

// LogConfig sets the log level
type LogConfig struct {
	Level string `hcl:"level,optional"`
}

// file mirrors Config with optional blocks, as HCL decodes them.
type file struct {
	Engine *EngineConfig `hcl:"engine,block"`
	Cache  *CacheConfig  `hcl:"cache,block"`
	Store  *StoreConfig  `hcl:"store,block"`
	Log    *LogConfig    `hcl:"log,block"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			ChunkSize:         2048,
			ParallelThreshold: 10000,
		},
		Cache: CacheConfig{
			Path: "bcm.csv",
		},
		Store: StoreConfig{
			Driver: "sqlite",
			DSN:    "matchups.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from an HCL file. A missing file yields the
// defaults; values left out of the file keep their default.
func Load(filename string) (*Config, error) {
	cfg := Default()
	if filename == "" {
		return cfg, nil
	}
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var decoded file
	diags = gohcl.DecodeBody(f.Body, nil, &decoded)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply decoded values over the defaults
	if e := decoded.Engine; e != nil {
		if e.Workers != 0 {
			cfg.Engine.Workers = e.Workers
		}
		if e.ChunkSize != 0 {
			cfg.Engine.ChunkSize = e.ChunkSize
		}
		if e.ParallelThreshold != 0 {
			cfg.Engine.ParallelThreshold = e.ParallelThreshold
		}
	}
	if c := decoded.Cache; c != nil {
		if c.Path != "" {
			cfg.Cache.Path = c.Path
		}
		cfg.Cache.Enabled = c.Enabled
	}
	if s := decoded.Store; s != nil {
		if s.Driver != "" {
			cfg.Store.Driver = s.Driver
		}
		if s.DSN != "" {
			cfg.Store.DSN = s.DSN
		}
	}
	if l := decoded.Log; l != nil && l.Level != "" {
		cfg.Log.Level = l.Level
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Engine.Workers < 0 {
		return fmt.Errorf("invalid engine workers: %d", c.Engine.Workers)
	}
	if c.Engine.ChunkSize < 1 {
		return fmt.Errorf("invalid engine chunk_size: %d", c.Engine.ChunkSize)
	}
	if c.Engine.ParallelThreshold < 1 {
		return fmt.Errorf("invalid engine parallel_threshold: %d", c.Engine.ParallelThreshold)
	}
	if c.Cache.Enabled && c.Cache.Path == "" {
		return fmt.Errorf("enabled cache needs a path")
	}

	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid store driver: %q (want sqlite or postgres)", c.Store.Driver)
	}
	if c.Store.DSN == "" {
		return fmt.Errorf("store dsn is required")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Log.Level)
	}
	return nil
}
