package stager_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unitrun/unitrun/internal/adapters/outbound/stager"
	"github.com/unitrun/unitrun/internal/domain"
)

const fixtureDir = "../../../../testdata/c-sample"

func fixtureTests(t *testing.T) []domain.DiscoveredTest {
	t.Helper()
	abs, err := filepath.Abs(fixtureDir)
	require.NoError(t, err)
	return []domain.DiscoveredTest{{
		Module:     "temp_converter",
		TestFile:   filepath.Join(abs, "tests", "test_temp_converter.c"),
		SourceFile: filepath.Join(abs, "src", "temp_converter.c"),
	}}
}

func TestWorkspaceStager_Stage(t *testing.T) {
	workspace := filepath.Join(t.TempDir(), "build")

	s := stager.New()
	err := s.Stage(fixtureDir, workspace, domain.DefaultConfig(), fixtureTests(t))
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(workspace, "src", "temp_converter.c"))
	assert.FileExists(t, filepath.Join(workspace, "src", "temp_converter.h"))
	assert.FileExists(t, filepath.Join(workspace, "src", "main.c"))
	assert.FileExists(t, filepath.Join(workspace, "tests", "test_temp_converter.c"))
	assert.FileExists(t, filepath.Join(workspace, "unity", "src", "unity.c"))
	assert.FileExists(t, filepath.Join(workspace, "unity", "src", "unity.h"))
}

func TestWorkspaceStager_Stage_Idempotent(t *testing.T) {
	workspace := filepath.Join(t.TempDir(), "build")
	s := stager.New()

	require.NoError(t, s.Stage(fixtureDir, workspace, domain.DefaultConfig(), fixtureTests(t)))

	// A second run must overwrite staged files, picking up source edits.
	staged := filepath.Join(workspace, "src", "temp_converter.c")
	require.NoError(t, os.WriteFile(staged, []byte("stale"), 0o644))
	require.NoError(t, s.Stage(fixtureDir, workspace, domain.DefaultConfig(), fixtureTests(t)))

	data, err := os.ReadFile(staged)
	require.NoError(t, err)
	assert.NotEqual(t, "stale", string(data))
}

func TestWorkspaceStager_Stage_RemovesStaleCoverageData(t *testing.T) {
	workspace := filepath.Join(t.TempDir(), "build")
	require.NoError(t, os.MkdirAll(workspace, 0o755))
	gcda := filepath.Join(workspace, "temp_converter.gcda")
	gcno := filepath.Join(workspace, "temp_converter.gcno")
	require.NoError(t, os.WriteFile(gcda, []byte{0}, 0o644))
	require.NoError(t, os.WriteFile(gcno, []byte{0}, 0o644))

	s := stager.New()
	require.NoError(t, s.Stage(fixtureDir, workspace, domain.DefaultConfig(), fixtureTests(t)))

	assert.NoFileExists(t, gcda)
	assert.NoFileExists(t, gcno)
}

func TestWorkspaceStager_Stage_MissingSourceDir(t *testing.T) {
	repo := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repo, "unity", "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(repo, "unity", "src", "unity.c"), []byte("//"), 0o644))

	s := stager.New()
	err := s.Stage(repo, filepath.Join(repo, "build"), domain.DefaultConfig(), nil)
	require.Error(t, err)

	var precond *domain.PreconditionError
	require.ErrorAs(t, err, &precond)
	assert.Contains(t, precond.Missing, "source directory")
}

func TestWorkspaceStager_Stage_MissingUnity(t *testing.T) {
	repo := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repo, "src"), 0o755))

	s := stager.New()
	err := s.Stage(repo, filepath.Join(repo, "build"), domain.DefaultConfig(), nil)
	require.Error(t, err)

	var precond *domain.PreconditionError
	require.ErrorAs(t, err, &precond)
	assert.Contains(t, precond.Missing, "Unity framework")
	assert.Contains(t, precond.Hint, "ThrowTheSwitch")
}

func TestWorkspaceStager_Stage_EmptyUnityDirIsMissing(t *testing.T) {
	repo := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repo, "src"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(repo, "unity"), 0o755))

	s := stager.New()
	err := s.Stage(repo, filepath.Join(repo, "build"), domain.DefaultConfig(), nil)

	var precond *domain.PreconditionError
	require.ErrorAs(t, err, &precond, "a unity dir without C sources is as missing as no dir")
}
