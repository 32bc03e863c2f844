package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// configFile is the file name looked up in the user and local config dirs.
const configFile = "colormatch.yaml"

// LoadColorMatch loads the Color Match configuration.
// Search order: customPath -> ~/.colormatch/configs/colormatch.yaml ->
// ./configs/colormatch.yaml -> embedded default.
// Files are decoded over the defaults, so a partial file only overrides the
// keys it sets. A custom path that cannot be read, parsed or validated is an
// error; broken files on the search path are skipped.
func LoadColorMatch(customPath string) (ColorMatchConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return ColorMatchConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parse(data)
		if err != nil {
			return ColorMatchConfig{}, fmt.Errorf("failed to load config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	candidates := []string{userConfigPath(configFile), filepath.Join("configs", configFile)}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parse(defaultColorMatchYAML)
	if err != nil {
		return DefaultColorMatchConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parse decodes YAML over the defaults and validates the result.
func parse(data []byte) (ColorMatchConfig, error) {
	cfg := DefaultColorMatchConfig()
	// A palette list in the file replaces the default list.
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ColorMatchConfig{}, fmt.Errorf("parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return ColorMatchConfig{}, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".colormatch", "configs", filename)
}
