package domain

import (
	"strings"
)

// ParseUnityOutput extracts per-test-function counts from a Unity test
// runner's stdout. Two signals are recognized: individual result lines of
// the form "file:line:test_name:PASS" (or :FAIL), and the trailing summary
// line "N Tests M Failures K Ignored". The summary line wins when both are
// present, since FAIL lines can be truncated by a crashing test.
func ParseUnityOutput(output string) UnityCounts {
	var c UnityCounts
	var summary *UnityCounts

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.Contains(line, ":PASS"):
			c.Tests++
			c.Passed++
		case strings.Contains(line, ":FAIL"):
			c.Tests++
			c.Failed++
		case strings.Contains(line, "Tests") && strings.Contains(line, "Failures"):
			if s, ok := parseUnitySummaryLine(line); ok {
				summary = &s
			}
		}
	}

	if summary != nil {
		return *summary
	}
	return c
}

// parseUnitySummaryLine parses "5 Tests 1 Failures 0 Ignored".
func parseUnitySummaryLine(line string) (UnityCounts, bool) {
	fields := strings.Fields(line)
	if len(fields) < 4 || fields[1] != "Tests" || fields[3] != "Failures" {
		return UnityCounts{}, false
	}
	tests, ok1 := atoi(fields[0])
	failures, ok2 := atoi(fields[2])
	if !ok1 || !ok2 || tests < failures {
		return UnityCounts{}, false
	}
	return UnityCounts{Tests: tests, Passed: tests - failures, Failed: failures}, true
}

func atoi(s string) (int, bool) {
	n := 0
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}
