// Package application wires the pipeline stages together:
// discover -> stage -> describe -> build -> execute -> cover -> report.
package application

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/unitrun/unitrun/internal/domain"
)

// RunOptions carries per-invocation settings from the CLI.
type RunOptions struct {
	// RepoPath is the root of the C repository to scan.
	RepoPath string
	// OutputDir is the workspace directory, resolved relative to RepoPath
	// unless absolute.
	OutputDir string
	// Verbose enables progress detail. Outcomes are unaffected.
	Verbose bool
	// Progress receives human-readable progress lines. Nil discards them.
	Progress io.Writer
}

// RunService orchestrates one full pipeline run. It depends only on domain
// ports, so each stage can be substituted with a fake in tests.
type RunService struct {
	config   domain.ConfigLoader
	scanner  domain.ReportScanner
	stager   domain.WorkspaceStager
	descgen  domain.DescriptorGenerator
	builder  domain.BuildDriver
	executor domain.TestExecutor
	coverage domain.CoverageCollector
	reports  domain.ReportWriter
	git      domain.GitInfo
}

func NewRunService(
	config domain.ConfigLoader,
	scanner domain.ReportScanner,
	stager domain.WorkspaceStager,
	descgen domain.DescriptorGenerator,
	builder domain.BuildDriver,
	executor domain.TestExecutor,
	coverage domain.CoverageCollector,
	reports domain.ReportWriter,
	git domain.GitInfo,
) *RunService {
	return &RunService{
		config:   config,
		scanner:  scanner,
		stager:   stager,
		descgen:  descgen,
		builder:  builder,
		executor: executor,
		coverage: coverage,
		reports:  reports,
		git:      git,
	}
}

// Run executes the whole pipeline. Fatal conditions (missing toolchain,
// missing source or Unity directory, configure failure) return an error
// without a report. The "no compilable tests" outcome returns both a report
// (carrying any unmapped report files) and domain.ErrNoCompilableTests so
// the CLI can surface the distinguished exit code.
func (s *RunService) Run(ctx context.Context, opts RunOptions) (*domain.RunReport, error) {
	progress := opts.Progress
	if progress == nil {
		progress = io.Discard
	}

	repoPath, err := filepath.Abs(opts.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("resolving repo path: %w", err)
	}
	workspace := opts.OutputDir
	if workspace == "" {
		workspace = "build"
	}
	if !filepath.IsAbs(workspace) {
		workspace = filepath.Join(repoPath, workspace)
	}

	cfg, err := s.config.Load(repoPath)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	cfg = cfg.Normalized()

	if err := s.builder.Preflight(); err != nil {
		return nil, err
	}

	// Discover.
	scan, err := s.scanner.Scan(repoPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("scanning compilation reports: %w", err)
	}
	fmt.Fprintf(progress, "discovered %d compilable test(s), %d unmapped report(s)\n",
		len(scan.Tests), len(scan.Skipped))

	report := &domain.RunReport{
		RepoPath:  repoPath,
		BuildDir:  workspace,
		Skipped:   scan.Skipped,
		Coverage:  domain.CoverageSummary{Available: false, Reason: "run aborted before coverage"},
		Timestamp: time.Now().UTC(),
	}
	s.stampCommit(report)

	if len(scan.Tests) == 0 {
		report.Coverage.Reason = "no tests to cover"
		return report, domain.ErrNoCompilableTests
	}

	// Stage.
	if err := s.stager.Stage(repoPath, workspace, cfg, scan.Tests); err != nil {
		return nil, err
	}
	fmt.Fprintf(progress, "staged workspace at %s\n", workspace)

	// Describe.
	targets := make([]domain.BuildTarget, 0, len(scan.Tests))
	for _, t := range scan.Tests {
		targets = append(targets, t.Target())
	}
	if err := s.descgen.Generate(workspace, targets); err != nil {
		return nil, fmt.Errorf("generating build descriptor: %w", err)
	}

	// Configure. A failure here means no target can be attempted.
	cfgCtx, cancel := context.WithTimeout(ctx, cfg.BuildTimeout)
	out, err := s.builder.Configure(cfgCtx, workspace)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrConfigureFailed, tail(out, 20))
	}
	fmt.Fprintln(progress, "configure step succeeded")

	// Compile per target; a single generated test failing to build must not
	// take the rest of the run down with it.
	var built []domain.BuildTarget
	var results []domain.TestResult
	for _, t := range targets {
		buildCtx, cancel := context.WithTimeout(ctx, cfg.BuildTimeout)
		out, err := s.builder.BuildTarget(buildCtx, workspace, t.Name)
		cancel()
		if err != nil {
			fmt.Fprintf(progress, "build failed: %s\n", t.Name)
			results = append(results, domain.TestResult{
				Name:   t.Name,
				Status: domain.StatusBuildFailed,
				Output: tail(out, 40),
			})
			continue
		}
		if opts.Verbose {
			fmt.Fprintf(progress, "built %s\n", t.Name)
		}
		built = append(built, t)
	}

	// Execute built targets. Runs are independent, so they fan out across a
	// bounded worker pool; results are sorted afterwards to keep the report
	// deterministic regardless of completion order.
	execResults := s.executeAll(ctx, workspace, cfg, built, progress)
	results = append(results, execResults...)
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	report.Results = results

	if err := s.reports.WriteReports(repoPath, results); err != nil {
		fmt.Fprintf(progress, "warning: could not write test reports: %v\n", err)
	}

	// Coverage is strictly best effort.
	covCtx, cancel := context.WithTimeout(ctx, cfg.BuildTimeout)
	report.Coverage = s.coverage.Collect(covCtx, workspace, anyPassed(results))
	cancel()
	if !report.Coverage.Available && opts.Verbose {
		fmt.Fprintf(progress, "coverage unavailable: %s\n", report.Coverage.Reason)
	}

	return report, nil
}

// executeAll runs every built target with a bounded worker pool.
func (s *RunService) executeAll(
	ctx context.Context,
	workspace string,
	cfg domain.RunConfig,
	built []domain.BuildTarget,
	progress io.Writer,
) []domain.TestResult {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var mu sync.Mutex
	results := make([]domain.TestResult, 0, len(built))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, t := range built {
		g.Go(func() error {
			res := s.runOne(gctx, workspace, cfg, t)
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			fmt.Fprintf(progress, "ran %s: %s\n", res.Name, res.Status)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures live in results

	return results
}

func (s *RunService) runOne(ctx context.Context, workspace string, cfg domain.RunConfig, t domain.BuildTarget) domain.TestResult {
	executable := filepath.Join(workspace, t.Name)
	res, err := s.executor.Run(ctx, executable, cfg.TestTimeout)

	result := domain.TestResult{
		Name:     t.Name,
		Duration: res.Duration,
		Output:   res.Output,
		Unity:    domain.ParseUnityOutput(res.Output),
	}
	switch {
	case err != nil:
		// The binary could not be started at all.
		result.Status = domain.StatusFailed
		result.Output = err.Error()
	case res.TimedOut:
		result.Status = domain.StatusTimedOut
	case res.ExitCode == 0:
		result.Status = domain.StatusPassed
		result.ExitCode = &res.ExitCode
	default:
		result.Status = domain.StatusFailed
		result.ExitCode = &res.ExitCode
	}
	return result
}

func (s *RunService) stampCommit(report *domain.RunReport) {
	if s.git == nil || !s.git.IsGitRepo(report.RepoPath) {
		return
	}
	if hash, err := s.git.CommitHash(report.RepoPath); err == nil {
		report.CommitHash = hash
	}
}

func anyPassed(results []domain.TestResult) bool {
	for _, r := range results {
		if r.Passed() {
			return true
		}
	}
	return false
}

// tail keeps the last n lines of tool output; build errors come last.
func tail(out string, n int) string {
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
