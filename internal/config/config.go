package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the file the CLI reads when no --config flag is given.
const DefaultPath = "diagram.yaml"

// Config is the diagram.yaml file.
type Config struct {
	Viewer Viewer `yaml:"viewer" json:"viewer"`
	Layout string `yaml:"layout" json:"layout"`
	HTTP   HTTP   `yaml:"http" json:"http"`
	Redis  Redis  `yaml:"redis" json:"redis"`
	Log    Log    `yaml:"log" json:"log"`
	Model  Model  `yaml:"model" json:"model"`
}

// Viewer describes the rendering side.
type Viewer struct {
	NeedsClientLayout bool `yaml:"needs_client_layout" json:"needs_client_layout"`
}

type HTTP struct {
	Addr string `yaml:"addr" json:"addr"`
}

// Redis enables the pub/sub bridge when Addr is set.
type Redis struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	Prefix   string `yaml:"prefix" json:"prefix"`
}

type Log struct {
	Level string `yaml:"level" json:"level"`
}

// Model points at the model file the engine follows.
type Model struct {
	Path string `yaml:"path" json:"path"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		HTTP:  HTTP{Addr: ":8080"},
		Redis: Redis{Prefix: "diagram:"},
		Log:   Log{Level: "info"},
	}
}

// Load reads a configuration file (YAML or JSON) on top of Default.
// A missing file is not an error unless required is true.
func Load(path string, required bool) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	// Relative model paths are relative to the config file.
	if cfg.Model.Path != "" && !filepath.IsAbs(cfg.Model.Path) {
		cfg.Model.Path = filepath.Join(filepath.Dir(path), cfg.Model.Path)
	}
	return cfg, nil
}
