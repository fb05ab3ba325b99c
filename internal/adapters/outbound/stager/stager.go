// Package stager prepares the self-contained build workspace.
package stager

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/unitrun/unitrun/internal/domain"
)

// WorkspaceStager implements domain.WorkspaceStager with plain filesystem
// copies. Staging is idempotent: reruns overwrite staged files in place and
// never touch anything outside the workspace.
type WorkspaceStager struct{}

func New() *WorkspaceStager {
	return &WorkspaceStager{}
}

// Stage copies the repository sources into workspace/src, the discovered
// test files into workspace/tests, and the Unity framework into
// workspace/unity. A missing source or Unity directory is a fatal
// precondition failure, reported before any build is attempted.
func (s *WorkspaceStager) Stage(repoPath, workspace string, cfg domain.RunConfig, tests []domain.DiscoveredTest) error {
	cfg = cfg.Normalized()

	sourceDir := filepath.Join(repoPath, filepath.FromSlash(cfg.SourceDir))
	if _, err := os.Stat(sourceDir); err != nil {
		return &domain.PreconditionError{
			Missing: fmt.Sprintf("source directory %s", sourceDir),
			Hint:    "expected the C sources under " + cfg.SourceDir + "; set source_dir in .unitrun.yaml to override",
		}
	}

	unityDir := filepath.Join(repoPath, filepath.FromSlash(cfg.UnityDir))
	if !hasUnitySources(unityDir) {
		return &domain.PreconditionError{
			Missing: fmt.Sprintf("Unity framework at %s", unityDir),
			Hint:    "vendor https://github.com/ThrowTheSwitch/Unity under " + cfg.UnityDir + "/ (unity.c must be present)",
		}
	}

	if err := os.MkdirAll(workspace, 0o755); err != nil {
		return fmt.Errorf("creating workspace: %w", err)
	}

	if err := copySourceFiles(sourceDir, filepath.Join(workspace, "src")); err != nil {
		return fmt.Errorf("staging sources: %w", err)
	}
	if err := copyTestFiles(tests, filepath.Join(workspace, "tests")); err != nil {
		return fmt.Errorf("staging tests: %w", err)
	}
	if err := copyTree(unityDir, filepath.Join(workspace, "unity")); err != nil {
		return fmt.Errorf("staging unity framework: %w", err)
	}

	// Stale counter files from a previous instrumented run would pollute
	// this run's coverage capture.
	if err := removeStaleCoverageData(workspace); err != nil {
		return fmt.Errorf("cleaning old coverage data: %w", err)
	}
	return nil
}

// hasUnitySources checks that the Unity directory exists and actually
// contains C sources, not just an empty placeholder.
func hasUnitySources(unityDir string) bool {
	found := false
	_ = filepath.WalkDir(unityDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".c") {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return found
}

// copySourceFiles stages the top-level .c and .h files of the source dir.
func copySourceFiles(sourceDir, dest string) error {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(e.Name(), ".c") && !strings.HasSuffix(e.Name(), ".h") {
			continue
		}
		if err := copyFile(filepath.Join(sourceDir, e.Name()), filepath.Join(dest, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func copyTestFiles(tests []domain.DiscoveredTest, dest string) error {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	for _, t := range tests {
		if err := copyFile(t.TestFile, filepath.Join(dest, filepath.Base(t.TestFile))); err != nil {
			return err
		}
	}
	return nil
}

// copyTree copies a directory recursively, overwriting existing files.
func copyTree(src, dest string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func removeStaleCoverageData(workspace string) error {
	return filepath.WalkDir(workspace, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".gcda") || strings.HasSuffix(d.Name(), ".gcno") {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return err
			}
		}
		return nil
	})
}
