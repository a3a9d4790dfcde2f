package project

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jasontally/semdiff/internal/pipeline"
)

// LoadConfig reads the optional YAML config file and applies it over the
// pipeline defaults. A missing file is not an error; a malformed one is.
func LoadConfig(path string) (pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
