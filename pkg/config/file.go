package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML configuration file on top of DefaultConfig.
// Keys are the long flag names with dashes replaced by underscores; unknown keys are rejected.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	// #nosec G304 -- path comes from the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}
