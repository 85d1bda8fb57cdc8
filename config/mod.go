// Package config defines the configuration file of the application. The file
// is written in YAML and every field is optional: missing fields keep their
// default value.
//
//	database: /var/lib/confidential/state.db
//	loglevel: debug
//	listen: 127.0.0.1:8080
//	tracing:
//	  enabled: true
//	  service: confidential
//
// Documentation Last Review: 16.10.2026
package config

import (
	"os"

	"go.dedis.ch/confidential/internal/tracing"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v2"
)

const (
	// DefaultDatabase is the path of the checkpoint database.
	DefaultDatabase = "confidential.db"

	// DefaultListen is the address of the proxy server.
	DefaultListen = "127.0.0.1:8080"
)

// Config is the configuration of the application.
type Config struct {
	Database string  `yaml:"database"`
	LogLevel string  `yaml:"loglevel"`
	Listen   string  `yaml:"listen"`
	Tracing  Tracing `yaml:"tracing"`
}

// Tracing is the configuration of the jaeger tracer. The agent and sampler
// settings are read from the JAEGER_* environment variables.
type Tracing struct {
	Enabled bool   `yaml:"enabled"`
	Service string `yaml:"service"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Database: DefaultDatabase,
		Listen:   DefaultListen,
		Tracing: Tracing{
			Service: tracing.DefaultService,
		},
	}
}

// Load reads the configuration file at the given path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, xerrors.Errorf("failed to read config: %v", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, xerrors.Errorf("config '%s': %v", path, err)
	}

	return cfg, nil
}

// Parse decodes the YAML document on top of the default configuration.
// Unknown fields are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	err := yaml.UnmarshalStrict(data, &cfg)
	if err != nil {
		return Config{}, xerrors.Errorf("failed to decode: %v", err)
	}

	return cfg, nil
}

// Encode returns the YAML document of the configuration.
func (cfg Config) Encode() ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, xerrors.Errorf("failed to encode: %v", err)
	}

	return data, nil
}
