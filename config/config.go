// Package config loads and validates the scenecast server/CLI configuration:
// environment defaults, an optional YAML overlay, and a render parameter
// set.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"

	"scenecast/internal/models"
)

// ServerConfig holds the HTTP server and storage settings, additive to the
// §6 renderer.* configuration surface.
type ServerConfig struct {
	Environment  string `yaml:"environment"`
	ServerPort   int    `yaml:"server_port" validate:"required,gt=0"`
	DBPath       string `yaml:"db_path" validate:"required"`
	StoragePath  string `yaml:"storage_path" validate:"required"`
	FFmpegBinary string `yaml:"ffmpeg_binary" validate:"required"`
}

// Config is the full application configuration: server settings plus a
// render parameter set, both loaded and validated at startup. The run
// handler does not read Render: submitted runs start from
// models.DefaultRenderConfig().
type Config struct {
	Server ServerConfig        `yaml:"server" validate:"required"`
	Render models.RenderConfig `yaml:"render" validate:"required"`
}

var validate = validator.New()

// Load builds a Config from environment defaults, optionally overlaid with
// a YAML file named by SCENECAST_CONFIG, then validates the merged result.
// Validation failure is a fatal startup error — fields are never silently
// left at their zero value.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("SCENECAST_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func defaultConfig() *Config {
	env := os.Getenv("SCENECAST_ENV")
	if env == "" {
		env = "development"
	}

	homeDir, _ := os.UserHomeDir()
	dataPath := os.Getenv("SCENECAST_DATA_PATH")
	if dataPath == "" {
		dataPath = filepath.Join(homeDir, "scenecast-data")
	}

	return &Config{
		Server: ServerConfig{
			Environment:  env,
			ServerPort:   8080,
			DBPath:       filepath.Join(dataPath, "scenecast.db"),
			StoragePath:  dataPath,
			FFmpegBinary: "ffmpeg",
		},
		Render: models.DefaultRenderConfig(),
	}
}
