package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

type Config struct {
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Logging  LoggingConfig  `toml:"logging"`
	Privacy  PrivacyConfig  `toml:"privacy"`
	Routing  RoutingConfig  `toml:"routing"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type ServerConfig struct {
	Bind        string `toml:"bind"`
	APIEndpoint string `toml:"api_endpoint"`
	MCPEndpoint string `toml:"mcp_endpoint"`
}

type LoggingConfig struct {
	Level string `toml:"level"` // debug | info | warn | error
}

type PrivacyConfig struct {
	InternalDomain string `toml:"internal_domain"`
}

type RoutingConfig struct {
	RegionalPipelineMarker string `toml:"regional_pipeline_marker"`
	DefaultLaneName        string `toml:"default_lane_name"`
	DefaultLaneColor       string `toml:"default_lane_color"`
}

func Default(dbPath string) Config {
	return Config{
		Database: DatabaseConfig{
			Path: dbPath,
		},
		Server: ServerConfig{
			Bind:        "127.0.0.1:8080",
			APIEndpoint: "/api/v1",
			MCPEndpoint: "/mcp",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Privacy: PrivacyConfig{
			InternalDomain: "centauro.tv",
		},
		Routing: RoutingConfig{
			RegionalPipelineMarker: "colombia",
			DefaultLaneName:        "General",
			DefaultLaneColor:       "blue",
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database path is required")
	}

	switch strings.TrimSpace(strings.ToLower(c.Logging.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	if strings.TrimSpace(c.Privacy.InternalDomain) == "" {
		return errors.New("privacy.internal_domain is required")
	}
	if strings.Contains(c.Privacy.InternalDomain, "@") {
		return fmt.Errorf("privacy.internal_domain must not contain %q", "@")
	}

	if strings.TrimSpace(c.Routing.RegionalPipelineMarker) == "" {
		return errors.New("routing.regional_pipeline_marker is required")
	}
	if strings.TrimSpace(c.Routing.DefaultLaneName) == "" {
		return errors.New("routing.default_lane_name is required")
	}

	if strings.TrimSpace(c.Server.Bind) == "" {
		return errors.New("server.bind is required")
	}

	return nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
