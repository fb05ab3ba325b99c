// Package tui renders run reports as styled terminal output.
package tui

import (
	"fmt"
	"strings"

	"github.com/unitrun/unitrun/internal/domain"
)

// maxExcerptLines bounds the output excerpt shown per failing target; full
// output lives in the per-target report file.
const maxExcerptLines = 10

// RenderRunReport renders the final summary: counts block, failing-target
// details, skipped mappings, coverage block, artifact paths.
func RenderRunReport(report *domain.RunReport) string {
	var b strings.Builder
	counts := report.Counts()

	// Header box
	verdict := passStyle.Render("PASSED")
	if !report.Success() {
		verdict = failStyle.Render("FAILED")
	}
	headline := titleStyle.Render("unitrun") + "  " + verdict
	sub := dimStyle.Render(fmt.Sprintf("%d/%d targets passed", counts.Passed, counts.Total))
	if report.CommitHash != "" {
		sub += dimStyle.Render("  @" + report.CommitHash[:minInt(8, len(report.CommitHash))])
	}
	b.WriteString(boxStyle.Render(headline + "\n" + sub))
	b.WriteString("\n\n")

	renderCounts(&b, counts)
	renderFailures(&b, report)
	renderSkipped(&b, report.Skipped)
	renderCoverage(&b, report.Coverage)

	// Artifact paths
	b.WriteString("\n")
	b.WriteString("  " + dimStyle.Render("build directory: ") + report.BuildDir + "\n")
	if report.Coverage.Available {
		b.WriteString("  " + dimStyle.Render("coverage report: ") + report.Coverage.HTMLDir + "\n")
	} else {
		b.WriteString("  " + dimStyle.Render("coverage report: unavailable") + "\n")
	}

	return b.String()
}

func renderCounts(b *strings.Builder, c domain.Counts) {
	b.WriteString("  " + headerStyle.Render("Targets") + "\n")
	fmt.Fprintf(b, "    total %d   %s %d   %s %d   %s %d   %s %d   %s %d\n",
		c.Total,
		passStyle.Render("passed"), c.Passed,
		failStyle.Render("failed"), c.Failed,
		warnStyle.Render("timed out"), c.TimedOut,
		failStyle.Render("build failed"), c.BuildFailed,
		warnStyle.Render("skipped"), c.Skipped,
	)
	if c.UnityTests > 0 {
		fmt.Fprintf(b, "    %s %d run, %d passed, %d failed\n",
			dimStyle.Render("test functions:"), c.UnityTests, c.UnityPassed, c.UnityFailed)
	}
}

func renderFailures(b *strings.Builder, report *domain.RunReport) {
	failing := report.FailingResults()
	if len(failing) == 0 {
		return
	}

	b.WriteString("\n")
	b.WriteString("  " + headerStyle.Render("Failures") + " " +
		dimStyle.Render(fmt.Sprintf("(%d)", len(failing))) + "\n")

	for _, r := range failing {
		label := string(r.Status)
		if r.ExitCode != nil && r.Status == domain.StatusFailed {
			label = fmt.Sprintf("%s, exit code %d", r.Status, *r.ExitCode)
		}
		fmt.Fprintf(b, "    %s %s  %s\n", failStyle.Render("●"), r.Name, dimStyle.Render(label))

		for _, line := range excerpt(r.Output) {
			b.WriteString("      " + faintStyle.Render(line) + "\n")
		}
	}
}

func renderSkipped(b *strings.Builder, skipped []domain.SkippedTest) {
	if len(skipped) == 0 {
		return
	}

	b.WriteString("\n")
	b.WriteString("  " + headerStyle.Render("Unmapped reports") + " " +
		dimStyle.Render(fmt.Sprintf("(%d)", len(skipped))) + "\n")
	for _, s := range skipped {
		fmt.Fprintf(b, "    %s %s  %s\n", warnStyle.Render("●"), s.Module, dimStyle.Render(s.Reason))
	}
}

func renderCoverage(b *strings.Builder, cov domain.CoverageSummary) {
	b.WriteString("\n")
	b.WriteString("  " + headerStyle.Render("Coverage") + "\n")

	if !cov.Available {
		fmt.Fprintf(b, "    %s\n", dimStyle.Render("unavailable: "+cov.Reason))
		return
	}

	if cov.LineCoveragePercent != nil {
		fmt.Fprintf(b, "    lines: %s\n", percentStyled(*cov.LineCoveragePercent))
	}
	if len(cov.Files) > 0 {
		b.WriteString("    " + separatorLine + "\n")
		for _, f := range cov.Files {
			fmt.Fprintf(b, "    %-32s %5d/%-5d %s\n",
				f.File, f.LinesHit, f.LinesTotal, percentStyled(f.Percent))
		}
	}
}

func percentStyled(pct float64) string {
	s := fmt.Sprintf("%.1f%%", pct)
	switch {
	case pct >= 80:
		return passStyle.Render(s)
	case pct >= 50:
		return warnStyle.Render(s)
	default:
		return failStyle.Render(s)
	}
}

func excerpt(output string) []string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	if len(lines) > maxExcerptLines {
		truncated := len(lines) - maxExcerptLines
		lines = lines[:maxExcerptLines]
		lines = append(lines, fmt.Sprintf("... (%d more lines)", truncated))
	}
	return lines
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
