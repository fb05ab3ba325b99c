package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/unitrun/unitrun/internal/domain"
	"gopkg.in/yaml.v3"
)

const fileName = ".unitrun.yaml"

// YAMLLoader implements domain.ConfigLoader by reading .unitrun.yaml from
// the repository root.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads .unitrun.yaml from repoPath. A missing file yields the default
// conventions; a malformed file is an error, not a silent fallback.
func (l *YAMLLoader) Load(repoPath string) (domain.RunConfig, error) {
	data, err := os.ReadFile(filepath.Join(repoPath, fileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.RunConfig{}, err
	}

	var cfg domain.RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.RunConfig{}, fmt.Errorf("parsing %s: %w", fileName, err)
	}
	if err := cfg.Validate(); err != nil {
		return domain.RunConfig{}, fmt.Errorf("invalid %s: %w", fileName, err)
	}

	return cfg.Normalized(), nil
}
