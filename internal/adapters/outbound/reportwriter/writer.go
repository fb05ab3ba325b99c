// Package reportwriter persists per-target execution reports as plain text
// files that CI pipelines archive as artifacts.
package reportwriter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/unitrun/unitrun/internal/domain"
)

const reportsDirName = "test_reports"

// Writer implements domain.ReportWriter. Reports live under
// <repo>/tests/test_reports, one <target>_report.txt per executed target;
// stale reports from earlier runs are removed first.
type Writer struct{}

func New() *Writer {
	return &Writer{}
}

func (w *Writer) WriteReports(repoPath string, results []domain.TestResult) error {
	dir := filepath.Join(repoPath, domain.DefaultTestDir, reportsDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating report directory: %w", err)
	}

	stale, err := filepath.Glob(filepath.Join(dir, "*_report.txt"))
	if err != nil {
		return err
	}
	for _, f := range stale {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	for _, r := range results {
		path := filepath.Join(dir, r.Name+"_report.txt")
		if err := os.WriteFile(path, []byte(render(r)), 0o644); err != nil {
			return fmt.Errorf("writing report for %s: %w", r.Name, err)
		}
	}
	return nil
}

func render(r domain.TestResult) string {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "TEST REPORT: %s\n", r.Name)
	b.WriteString(rule + "\n\n")

	b.WriteString("EXECUTION SUMMARY\n")
	b.WriteString(strings.Repeat("-", 20) + "\n")
	fmt.Fprintf(&b, "Target: %s\n", r.Name)
	fmt.Fprintf(&b, "Status: %s\n", strings.ToUpper(string(r.Status)))
	if r.ExitCode != nil {
		fmt.Fprintf(&b, "Exit Code: %d\n", *r.ExitCode)
	}
	fmt.Fprintf(&b, "Duration: %s\n", r.Duration.Round(0))
	fmt.Fprintf(&b, "Test Functions Run: %d\n", r.Unity.Tests)
	fmt.Fprintf(&b, "Test Functions Passed: %d\n", r.Unity.Passed)
	fmt.Fprintf(&b, "Test Functions Failed: %d\n\n", r.Unity.Failed)

	b.WriteString("DETAILED OUTPUT\n")
	b.WriteString(strings.Repeat("-", 20) + "\n")
	if r.Output != "" {
		b.WriteString(r.Output)
		if !strings.HasSuffix(r.Output, "\n") {
			b.WriteString("\n")
		}
	} else {
		b.WriteString("(No output captured)\n")
	}

	b.WriteString("\n" + rule + "\n")
	return b.String()
}
