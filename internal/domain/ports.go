package domain

import (
	"context"
	"time"
)

// ScanResult is the discovery stage's output: resolved tests plus the
// report files that could not be mapped to exactly one test file.
type ScanResult struct {
	Tests   []DiscoveredTest
	Skipped []SkippedTest
}

// ReportScanner walks the compilation-report directory and maps qualifying
// reports to test and source files by naming convention.
type ReportScanner interface {
	Scan(repoPath string, cfg RunConfig) (*ScanResult, error)
}

// WorkspaceStager prepares the self-contained build workspace: src/, tests/
// and unity/ subtrees copied from the repository.
type WorkspaceStager interface {
	Stage(repoPath, workspace string, cfg RunConfig, tests []DiscoveredTest) error
}

// DescriptorGenerator writes the build descriptor into the workspace root.
// Identical targets must produce byte-identical output.
type DescriptorGenerator interface {
	Generate(workspace string, targets []BuildTarget) error
}

// BuildDriver invokes the external build toolchain. Configure failures are
// fatal to the run; per-target build failures are local.
type BuildDriver interface {
	// Preflight verifies the toolchain is installed. Returns a
	// *PreconditionError naming the missing tool otherwise.
	Preflight() error
	// Configure runs the configure/generate step in the workspace and
	// returns its combined output.
	Configure(ctx context.Context, workspace string) (string, error)
	// BuildTarget compiles one executable target and returns its combined
	// output. A non-nil error means the target failed to build.
	BuildTarget(ctx context.Context, workspace, target string) (string, error)
}

// ExecResult is the raw outcome of one test-executable subprocess.
type ExecResult struct {
	ExitCode int
	TimedOut bool
	Output   string
	Duration time.Duration
}

// TestExecutor runs a built test executable with a bounded timeout. The
// process is forcibly terminated when the timeout elapses.
type TestExecutor interface {
	Run(ctx context.Context, executable string, timeout time.Duration) (ExecResult, error)
}

// CoverageCollector captures, filters and renders coverage. It never fails
// the run: any problem degrades to Available=false with a reason.
type CoverageCollector interface {
	Collect(ctx context.Context, workspace string, anyPassed bool) CoverageSummary
}

// ConfigLoader reads the repository's run configuration.
type ConfigLoader interface {
	Load(repoPath string) (RunConfig, error)
}

// ReportWriter persists per-target execution reports next to the test
// sources so CI can archive them.
type ReportWriter interface {
	WriteReports(repoPath string, results []TestResult) error
}

// GitInfo reports version-control metadata for the scanned repository.
type GitInfo interface {
	IsGitRepo(repoPath string) bool
	CommitHash(repoPath string) (string, error)
}
