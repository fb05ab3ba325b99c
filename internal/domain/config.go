package domain

import (
	"fmt"
	"time"
)

// RunConfig holds the convention-based knobs of the pipeline, loaded from
// .unitrun.yaml in the repository root. Zero values mean "use the default";
// Normalized() fills them in, so explicit settings always win.
type RunConfig struct {
	// ReportDir is the compilation-report directory, relative to the repo root.
	ReportDir string `yaml:"report_dir"`
	// ReportSuffix marks a report as "this test compiles". Case-sensitive.
	ReportSuffix string `yaml:"report_suffix"`
	// TestDir holds the AI-generated test sources, relative to the repo root.
	TestDir string `yaml:"test_dir"`
	// TestPattern globs test files inside TestDir.
	TestPattern string `yaml:"test_pattern"`
	// SourceDir holds the C sources under test, relative to the repo root.
	SourceDir string `yaml:"source_dir"`
	// UnityDir holds the Unity framework, relative to the repo root.
	UnityDir string `yaml:"unity_dir"`

	// TestTimeout bounds each test executable's wall-clock runtime.
	TestTimeout time.Duration `yaml:"test_timeout"`
	// BuildTimeout bounds each build-tool invocation (configure and compile).
	BuildTimeout time.Duration `yaml:"build_timeout"`
	// Workers caps parallel test executions. 0 means one per CPU core.
	Workers int `yaml:"workers"`
}

const (
	DefaultReportDir    = "tests/compilation_report"
	DefaultReportSuffix = "_compiles_yes.txt"
	DefaultTestDir      = "tests"
	DefaultTestPattern  = "test_*.c"
	DefaultSourceDir    = "src"
	DefaultUnityDir     = "unity"
	DefaultTestTimeout  = 30 * time.Second
	DefaultBuildTimeout = 5 * time.Minute
)

// DefaultConfig returns the conventions the original tooling assumes.
func DefaultConfig() RunConfig {
	return RunConfig{
		ReportDir:    DefaultReportDir,
		ReportSuffix: DefaultReportSuffix,
		TestDir:      DefaultTestDir,
		TestPattern:  DefaultTestPattern,
		SourceDir:    DefaultSourceDir,
		UnityDir:     DefaultUnityDir,
		TestTimeout:  DefaultTestTimeout,
		BuildTimeout: DefaultBuildTimeout,
	}
}

// Normalized overlays defaults on top of unset fields.
func (c RunConfig) Normalized() RunConfig {
	d := DefaultConfig()
	if c.ReportDir == "" {
		c.ReportDir = d.ReportDir
	}
	if c.ReportSuffix == "" {
		c.ReportSuffix = d.ReportSuffix
	}
	if c.TestDir == "" {
		c.TestDir = d.TestDir
	}
	if c.TestPattern == "" {
		c.TestPattern = d.TestPattern
	}
	if c.SourceDir == "" {
		c.SourceDir = d.SourceDir
	}
	if c.UnityDir == "" {
		c.UnityDir = d.UnityDir
	}
	if c.TestTimeout <= 0 {
		c.TestTimeout = d.TestTimeout
	}
	if c.BuildTimeout <= 0 {
		c.BuildTimeout = d.BuildTimeout
	}
	return c
}

// Validate catches settings that would make the whole run meaningless.
func (c RunConfig) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if c.TestTimeout < 0 {
		return fmt.Errorf("test_timeout must be positive, got %s", c.TestTimeout)
	}
	if c.BuildTimeout < 0 {
		return fmt.Errorf("build_timeout must be positive, got %s", c.BuildTimeout)
	}
	return nil
}
