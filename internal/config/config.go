package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/example/hamlet/internal/core/catalog"
)

const (
	dirName     = ".hamlet"
	configFile  = "config.json"
	catalogFile = "catalog.yaml"

	// EnvDB overrides the database path.
	EnvDB = "HAMLET_DB"
	// EnvStatMultiplier overrides catalog.StatMultiplier.
	EnvStatMultiplier = "HAMLET_STAT_MULTIPLIER"
)

// Config is the local player configuration
type Config struct {
	PlayerID  string `json:"player_id"`
	VillageID string `json:"village_id,omitempty"`
}

// LoadConfig reads .hamlet/config.json from the specified directory.
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, dirName, configFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	hamletDir := filepath.Join(dir, dirName)
	if err := os.MkdirAll(hamletDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s dir: %w", dirName, err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(hamletDir, configFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DBPath returns $HAMLET_DB, or ~/.hamlet/hamlet.db.
func DBPath() (string, error) {
	if p := os.Getenv(EnvDB); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, dirName, "hamlet.db"), nil
}

// LoadCatalog returns the default balance with .hamlet/catalog.yaml from
// dir merged over it, then the stat multiplier from the environment.
// A missing file is not an error.
func LoadCatalog(dir string) (*catalog.Catalog, error) {
	cat := catalog.Default()

	path := filepath.Join(dir, dirName, catalogFile)
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	default:
		var override catalog.Catalog
		if err := yaml.Unmarshal(raw, &override); err != nil {
			return nil, fmt.Errorf("%s: %w", catalogFile, err)
		}
		if err := override.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", catalogFile, err)
		}
		cat = cat.Merge(&override)
	}

	if v := os.Getenv(EnvStatMultiplier); v != "" {
		m, err := strconv.ParseFloat(v, 64)
		if err != nil || m <= 0 {
			return nil, fmt.Errorf("%s must be a positive number, got %q", EnvStatMultiplier, v)
		}
		cat.StatMultiplier = m
	}
	return cat, nil
}
