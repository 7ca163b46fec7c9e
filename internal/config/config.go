package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

type ServerConfig struct {
	Port string `toml:"port" validate:"omitempty,numeric"`
}

type OntologyConfig struct {
	// DefaultPath is auto-loaded at startup when the file exists and no
	// upload has occurred yet.
	DefaultPath string `toml:"default_path"`
	// ActivitiesPath optionally replaces the built-in activity table.
	ActivitiesPath string `toml:"activities_path"`
	// WatchSource enables reloading when the source file changes.
	WatchSource bool `toml:"watch_source"`
	// UploadDir receives uploaded ontology files. Defaults to the OS
	// temp directory.
	UploadDir string `toml:"upload_dir"`
}

type SPARQLConfig struct {
	// Endpoint, when set, routes searches to a remote SPARQL 1.1
	// endpoint instead of the in-memory graph.
	Endpoint       string `toml:"endpoint" validate:"omitempty,url"`
	TimeoutSeconds int    `toml:"timeout_seconds" validate:"omitempty,min=1"`
}

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Ontology OntologyConfig `toml:"ontology"`
	SPARQL   SPARQLConfig   `toml:"sparql"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080"},
		Ontology: OntologyConfig{
			DefaultPath: "gfo_turtle.ttl",
			WatchSource: true,
		},
		SPARQL: SPARQLConfig{TimeoutSeconds: 30},
	}
}

// Load reads and validates a TOML config file, filling unset fields
// from the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.SPARQL.TimeoutSeconds == 0 {
		cfg.SPARQL.TimeoutSeconds = 30
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
