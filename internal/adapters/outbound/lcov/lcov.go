// Package lcov collects line coverage from an instrumented workspace using
// the lcov/genhtml toolchain.
package lcov

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/unitrun/unitrun/internal/domain"
)

const (
	rawInfoFile      = "coverage.info"
	filteredInfoFile = "coverage_filtered.info"
	sourceInfoFile   = "coverage_source.info"
	htmlDirName      = "coverage_reports"
)

// Collector implements domain.CoverageCollector. Every failure path
// degrades to Available=false with a reason; coverage problems never fail
// the run.
type Collector struct {
	// LcovBinary and GenHTMLBinary default to "lcov" and "genhtml".
	LcovBinary    string
	GenHTMLBinary string
}

func New() *Collector {
	return &Collector{LcovBinary: "lcov", GenHTMLBinary: "genhtml"}
}

// Collect captures raw counters across the workspace, filters the dataset
// down to staged src/ entries (Unity and the test harness are excluded from
// the reported percentage), renders an HTML report, and parses the filtered
// dataset into per-file percentages.
func (c *Collector) Collect(ctx context.Context, workspace string, anyPassed bool) domain.CoverageSummary {
	if _, err := exec.LookPath(c.LcovBinary); err != nil {
		return unavailable(c.LcovBinary + " not found on PATH")
	}

	htmlDir := filepath.Join(workspace, htmlDirName)

	// Only passing tests flush counters; with zero passes there is nothing
	// to capture. A placeholder page keeps CI artifact steps from failing.
	if !anyPassed {
		writePlaceholder(htmlDir, "All tests failed - no coverage data was generated. Only passing tests produce coverage counters.")
		return unavailable("no passing tests, coverage capture skipped")
	}
	if !hasCounterFiles(workspace) {
		writePlaceholder(htmlDir, "No .gcda counter files were found in the build directory. Ensure tests are built with coverage instrumentation.")
		return unavailable("no .gcda counter files found, capture skipped")
	}

	summary := domain.CoverageSummary{
		RawDataPath:      filepath.Join(workspace, rawInfoFile),
		FilteredDataPath: filepath.Join(workspace, sourceInfoFile),
		HTMLDir:          htmlDir,
	}

	// Capture.
	if out, err := c.lcov(ctx, workspace, "--capture", "--directory", ".",
		"--output-file", rawInfoFile, "--ignore-errors", "gcov,unused"); err != nil {
		return unavailable(fmt.Sprintf("lcov capture failed: %s", firstLine(out, err)))
	}
	if empty, err := fileEmpty(summary.RawDataPath); err != nil || empty {
		return unavailable("lcov capture produced no data")
	}

	// Filter out Unity and the program entry point, then keep src/ only.
	if out, err := c.lcov(ctx, workspace, "--remove", rawInfoFile, "**/unity/**", "**/main.c",
		"--output-file", filteredInfoFile, "--ignore-errors", "unused"); err != nil {
		return unavailable(fmt.Sprintf("lcov remove failed: %s", firstLine(out, err)))
	}
	if out, err := c.lcov(ctx, workspace, "--extract", filteredInfoFile, "**/src/*.c",
		"--output-file", sourceInfoFile, "--ignore-errors", "unused,empty"); err != nil {
		return unavailable(fmt.Sprintf("lcov extract failed: %s", firstLine(out, err)))
	}
	if empty, err := fileEmpty(summary.FilteredDataPath); err != nil || empty {
		return unavailable("no staged source files present in coverage data")
	}

	// Render HTML.
	if _, err := exec.LookPath(c.GenHTMLBinary); err != nil {
		return unavailable(c.GenHTMLBinary + " not found on PATH")
	}
	genhtml := exec.CommandContext(ctx, c.GenHTMLBinary, sourceInfoFile, "--output-directory", htmlDirName)
	genhtml.Dir = workspace
	if out, err := genhtml.CombinedOutput(); err != nil {
		return unavailable(fmt.Sprintf("genhtml failed: %s", firstLine(string(out), err)))
	}

	// Console summary table.
	listOut, err := c.lcov(ctx, workspace, "--list", sourceInfoFile)
	if err != nil {
		return unavailable(fmt.Sprintf("lcov list failed: %s", firstLine(listOut, err)))
	}

	summary.Available = true
	summary.Files = ParseList(listOut)
	if pct, ok := totalPercent(summary.Files); ok {
		summary.LineCoveragePercent = &pct
	}
	return summary
}

func (c *Collector) lcov(ctx context.Context, workspace string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, c.LcovBinary, args...)
	cmd.Dir = workspace

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	return buf.String(), err
}

// ParseList parses `lcov --list` table output into per-file coverage:
//
//	Filename                |Rate     Num|Rate    Num|Rate     Num
//	==============================================================
//	temp_converter.c        |50.0%      6| 0.0%     3|    -      0
//
// The first data column is line coverage; the Total row is recomputed from
// the files rather than trusted.
func ParseList(output string) []domain.FileCoverage {
	var files []domain.FileCoverage
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(line, "|") || !strings.Contains(line, "%") {
			continue
		}
		if strings.Contains(line, "|Rate") || strings.Contains(line, "|Lines") {
			continue
		}

		parts := strings.Split(line, "|")
		name := strings.TrimSpace(parts[0])
		if name == "" || strings.EqualFold(name, "total:") || strings.EqualFold(name, "total") {
			continue
		}

		fields := strings.Fields(parts[1])
		if len(fields) < 2 {
			continue
		}
		pct, err := strconv.ParseFloat(strings.TrimSuffix(fields[0], "%"), 64)
		if err != nil {
			continue
		}
		total, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		files = append(files, domain.FileCoverage{
			File:       name,
			LinesHit:   int(math.Round(pct / 100 * float64(total))),
			LinesTotal: total,
			Percent:    pct,
		})
	}
	return files
}

func totalPercent(files []domain.FileCoverage) (float64, bool) {
	var hit, total int
	for _, f := range files {
		hit += f.LinesHit
		total += f.LinesTotal
	}
	if total == 0 {
		return 0, false
	}
	return float64(hit) / float64(total) * 100, true
}

func unavailable(reason string) domain.CoverageSummary {
	return domain.CoverageSummary{Available: false, Reason: reason}
}

func hasCounterFiles(workspace string) bool {
	found := false
	_ = filepath.WalkDir(workspace, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".gcda") {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return found
}

// writePlaceholder leaves a minimal index.html so artifact collection has
// something to archive even without coverage data. Best effort.
func writePlaceholder(htmlDir, message string) {
	if err := os.MkdirAll(htmlDir, 0o755); err != nil {
		return
	}
	page := fmt.Sprintf("<html><head><title>No coverage data</title></head><body>\n<h1>No coverage data available</h1>\n<p>%s</p>\n</body></html>\n", message)
	_ = os.WriteFile(filepath.Join(htmlDir, "index.html"), []byte(page), 0o644)
}

func fileEmpty(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return true, err
	}
	return info.Size() == 0, nil
}

func firstLine(out string, err error) string {
	out = strings.TrimSpace(out)
	if out == "" {
		return err.Error()
	}
	if i := strings.IndexByte(out, '\n'); i >= 0 {
		out = out[:i]
	}
	return out
}
