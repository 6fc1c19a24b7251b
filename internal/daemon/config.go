// Package daemon manages the DrinkWise server lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all server configuration.
type Config struct {
	API     APIConfig     `toml:"api"`
	Storage StorageConfig `toml:"storage"`
	Logging LoggingConfig `toml:"logging"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host          string   `toml:"host"`
	Port          int      `toml:"port"`
	CORSOrigins   []string `toml:"cors_origins"`
	EnableMetrics bool     `toml:"enable_metrics"`
}

// StorageConfig controls where the SQLite database lives.
type StorageConfig struct {
	Dir string `toml:"dir"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := drinkwiseHome()
	return Config{
		API: APIConfig{
			Host:          "127.0.0.1",
			Port:          8420,
			CORSOrigins:   []string{"*"},
			EnableMetrics: true,
		},
		Storage: StorageConfig{
			Dir: filepath.Join(homeDir, "data"),
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(homeDir, "drinkwise.log"),
		},
	}
}

// LoadConfig reads config from ~/.drinkwise/config.toml, falling back to
// defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(drinkwiseHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet — use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes the config to ~/.drinkwise/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(drinkwiseHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// drinkwiseHome returns the DrinkWise data directory.
func drinkwiseHome() string {
	if env := os.Getenv("DRINKWISE_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".drinkwise")
}

// Home is exported for use by other packages.
func Home() string {
	return drinkwiseHome()
}
