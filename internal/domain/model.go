package domain

import "time"

// Status classifies the outcome of a single test target.
type Status string

const (
	StatusPassed      Status = "passed"
	StatusFailed      Status = "failed"
	StatusTimedOut    Status = "timed_out"
	StatusBuildFailed Status = "build_failed"
)

// DiscoveredTest is one AI-generated test that a compilation report marked
// as compiling. Uniqueness key is Module.
type DiscoveredTest struct {
	Module     string `json:"module"`
	TestFile   string `json:"test_file"`
	SourceFile string `json:"source_file,omitempty"`
	ReportFile string `json:"report_file"`
}

// BuildTarget is the build-descriptor view of a DiscoveredTest: one
// executable target linking the test source, the module's staged source
// (when resolvable) and the Unity framework.
type BuildTarget struct {
	Name        string   `json:"name"`
	TestSource  string   `json:"test_source"`
	Sources     []string `json:"sources,omitempty"`
	IncludeDirs []string `json:"include_dirs"`
}

// Target derives the BuildTarget for a discovered test. Paths are
// workspace-relative with forward slashes, the form the descriptor needs.
func (t DiscoveredTest) Target() BuildTarget {
	bt := BuildTarget{
		Name:        t.Module,
		TestSource:  "tests/" + baseName(t.TestFile),
		IncludeDirs: []string{"unity/src", "src"},
	}
	if t.SourceFile != "" {
		bt.Sources = []string{"src/" + baseName(t.SourceFile)}
	}
	return bt
}

func baseName(p string) string {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '/' || p[i] == '\\' {
			return p[i+1:]
		}
	}
	return p
}

// UnityCounts holds per-executable test-function counts parsed from Unity
// runner output.
type UnityCounts struct {
	Tests  int `json:"tests"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// TestResult is the outcome of building and running one target.
type TestResult struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	ExitCode *int          `json:"exit_code,omitempty"`
	Duration time.Duration `json:"duration_ns"`
	Output   string        `json:"output,omitempty"`
	Unity    UnityCounts   `json:"unity"`
}

// Passed reports whether the target ran and exited zero.
func (r TestResult) Passed() bool { return r.Status == StatusPassed }

// CoverageSummary describes the optional coverage stage's outcome.
type CoverageSummary struct {
	Available           bool           `json:"available"`
	Reason              string         `json:"reason,omitempty"`
	RawDataPath         string         `json:"raw_data_path,omitempty"`
	FilteredDataPath    string         `json:"filtered_data_path,omitempty"`
	HTMLDir             string         `json:"html_dir,omitempty"`
	LineCoveragePercent *float64       `json:"line_coverage_percent,omitempty"`
	Files               []FileCoverage `json:"files,omitempty"`
}

// FileCoverage is per-source-file line coverage from the filtered dataset.
type FileCoverage struct {
	File       string  `json:"file"`
	LinesHit   int     `json:"lines_hit"`
	LinesTotal int     `json:"lines_total"`
	Percent    float64 `json:"percent"`
}

// SkippedTest records a report file whose module could not be mapped to
// exactly one test file. Counted separately, never silently merged.
type SkippedTest struct {
	Module     string `json:"module"`
	ReportFile string `json:"report_file"`
	Reason     string `json:"reason"`
}

// RunReport is the terminal artifact of one pipeline run.
type RunReport struct {
	RepoPath   string          `json:"repo_path"`
	BuildDir   string          `json:"build_dir"`
	CommitHash string          `json:"commit_hash,omitempty"`
	Results    []TestResult    `json:"results"`
	Skipped    []SkippedTest   `json:"skipped,omitempty"`
	Coverage   CoverageSummary `json:"coverage"`
	Timestamp  time.Time       `json:"timestamp"`
}

// Counts is the aggregate counts block of the final summary.
type Counts struct {
	Total       int `json:"total"`
	Passed      int `json:"passed"`
	Failed      int `json:"failed"`
	TimedOut    int `json:"timed_out"`
	BuildFailed int `json:"build_failed"`
	Skipped     int `json:"skipped"`

	UnityTests  int `json:"unity_tests"`
	UnityPassed int `json:"unity_passed"`
	UnityFailed int `json:"unity_failed"`
}

// Counts aggregates per-target results. Total covers every discovered
// target plus unresolved mappings, so discovery and execution reconcile.
func (r RunReport) Counts() Counts {
	c := Counts{Skipped: len(r.Skipped)}
	c.Total = len(r.Results) + len(r.Skipped)
	for _, res := range r.Results {
		switch res.Status {
		case StatusPassed:
			c.Passed++
		case StatusFailed:
			c.Failed++
		case StatusTimedOut:
			c.TimedOut++
		case StatusBuildFailed:
			c.BuildFailed++
		}
		c.UnityTests += res.Unity.Tests
		c.UnityPassed += res.Unity.Passed
		c.UnityFailed += res.Unity.Failed
	}
	return c
}

// Success reports whether the run as a whole passed: at least one test
// discovered, no unresolved mappings, and every result passed.
func (r RunReport) Success() bool {
	if len(r.Results) == 0 || len(r.Skipped) > 0 {
		return false
	}
	for _, res := range r.Results {
		if res.Status != StatusPassed {
			return false
		}
	}
	return true
}

// FailingResults returns results that need a detail block in the summary,
// in report order.
func (r RunReport) FailingResults() []TestResult {
	var out []TestResult
	for _, res := range r.Results {
		if res.Status != StatusPassed {
			out = append(out, res)
		}
	}
	return out
}
