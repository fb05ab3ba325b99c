// Package scanner discovers compilable AI-generated tests from the
// compilation-report directory.
package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/unitrun/unitrun/internal/domain"
)

// ReportScanner implements domain.ReportScanner by walking the report
// directory and resolving test files by normalized naming convention.
type ReportScanner struct{}

func New() *ReportScanner {
	return &ReportScanner{}
}

// Scan returns one DiscoveredTest per report file ending in the configured
// suffix. A missing report directory yields an empty result, not an error:
// "nothing generated yet" is a valid outcome the caller reports. Report
// files that map to zero or several test files are recorded in Skipped and
// never abort the scan.
func (s *ReportScanner) Scan(repoPath string, cfg domain.RunConfig) (*domain.ScanResult, error) {
	cfg = cfg.Normalized()
	result := &domain.ScanResult{}

	reportDir := filepath.Join(repoPath, filepath.FromSlash(cfg.ReportDir))
	entries, err := os.ReadDir(reportDir)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return nil, err
	}

	testIndex, err := buildTestIndex(repoPath, cfg)
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), cfg.ReportSuffix) {
			continue
		}
		reportFile := filepath.Join(reportDir, entry.Name())
		module := domain.NormalizeModuleName(strings.TrimSuffix(entry.Name(), cfg.ReportSuffix))

		if module == "" {
			result.Skipped = append(result.Skipped, domain.SkippedTest{
				Module:     module,
				ReportFile: reportFile,
				Reason:     "report file name reduces to an empty module name",
			})
			continue
		}
		if domain.IsMainModule(module) {
			// main.c hosts the program entry point; it is never unit tested.
			continue
		}

		candidates := testIndex[module]
		mapErr := &domain.MappingError{Module: module, ReportFile: reportFile, Candidates: candidates}
		switch len(candidates) {
		case 0:
			mapErr.Reason = domain.MappingUnresolved
			result.Skipped = append(result.Skipped, domain.SkippedTest{
				Module: module, ReportFile: reportFile, Reason: mapErr.Error(),
			})
		case 1:
			result.Tests = append(result.Tests, domain.DiscoveredTest{
				Module:     module,
				TestFile:   candidates[0],
				SourceFile: resolveSource(repoPath, cfg, module),
				ReportFile: reportFile,
			})
		default:
			mapErr.Reason = domain.MappingAmbiguous
			result.Skipped = append(result.Skipped, domain.SkippedTest{
				Module: module, ReportFile: reportFile, Reason: mapErr.Error(),
			})
		}
	}

	sort.Slice(result.Tests, func(i, j int) bool {
		return result.Tests[i].Module < result.Tests[j].Module
	})
	sort.Slice(result.Skipped, func(i, j int) bool {
		return result.Skipped[i].Module < result.Skipped[j].Module
	})
	return result, nil
}

// buildTestIndex globs the test directory and indexes candidates by
// normalized module name.
func buildTestIndex(repoPath string, cfg domain.RunConfig) (map[string][]string, error) {
	testDir := filepath.Join(repoPath, filepath.FromSlash(cfg.TestDir))
	matches, err := doublestar.FilepathGlob(filepath.Join(testDir, cfg.TestPattern))
	if err != nil {
		return nil, err
	}

	index := make(map[string][]string)
	for _, m := range matches {
		module := domain.NormalizeModuleName(filepath.Base(m))
		if module == "" {
			continue
		}
		index[module] = append(index[module], m)
	}
	for _, c := range index {
		sort.Strings(c)
	}
	return index, nil
}

// resolveSource finds the module's source file under the source directory.
// Missing sources are fine: some generated tests stub out everything they
// call and link against nothing but Unity.
func resolveSource(repoPath string, cfg domain.RunConfig, module string) string {
	sourceDir := filepath.Join(repoPath, filepath.FromSlash(cfg.SourceDir))

	// Exact conventional name first.
	exact := filepath.Join(sourceDir, module+".c")
	if _, err := os.Stat(exact); err == nil {
		return exact
	}

	// Fall back to normalized matching for repos with mixed conventions.
	matches, err := doublestar.FilepathGlob(filepath.Join(sourceDir, "*.c"))
	if err != nil {
		return ""
	}
	var found []string
	for _, m := range matches {
		if domain.NormalizeModuleName(filepath.Base(m)) == module {
			found = append(found, m)
		}
	}
	if len(found) == 1 {
		return found[0]
	}
	return ""
}
