package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/unitrun/unitrun/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := domain.DefaultConfig()
	assert.Equal(t, "tests/compilation_report", cfg.ReportDir)
	assert.Equal(t, "_compiles_yes.txt", cfg.ReportSuffix)
	assert.Equal(t, "test_*.c", cfg.TestPattern)
	assert.Equal(t, "src", cfg.SourceDir)
	assert.Equal(t, "unity", cfg.UnityDir)
	assert.Equal(t, 30*time.Second, cfg.TestTimeout)
}

func TestRunConfig_Normalized_FillsZeroValues(t *testing.T) {
	cfg := domain.RunConfig{SourceDir: "lib"}.Normalized()

	assert.Equal(t, "lib", cfg.SourceDir, "explicit value wins")
	assert.Equal(t, "tests/compilation_report", cfg.ReportDir)
	assert.Equal(t, 5*time.Minute, cfg.BuildTimeout)
	assert.Zero(t, cfg.Workers, "workers zero means one per CPU core")
}

func TestRunConfig_Validate(t *testing.T) {
	assert.NoError(t, domain.DefaultConfig().Validate())
	assert.Error(t, domain.RunConfig{Workers: -1}.Validate())
	assert.Error(t, domain.RunConfig{TestTimeout: -time.Second}.Validate())
	assert.Error(t, domain.RunConfig{BuildTimeout: -time.Minute}.Validate())
}
