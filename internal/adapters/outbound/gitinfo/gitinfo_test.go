package gitinfo_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unitrun/unitrun/internal/adapters/outbound/gitinfo"
)

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=test",
		"GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=test",
		"GIT_COMMITTER_EMAIL=test@example.com",
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
}

func initRepoWithCommit(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	runGit(t, dir, "init")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0o644))
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "initial commit")
	return dir
}

func TestGitInfoAdapter_IsGitRepo(t *testing.T) {
	dir := initRepoWithCommit(t)

	g := gitinfo.New()
	assert.True(t, g.IsGitRepo(dir))
	assert.False(t, g.IsGitRepo(t.TempDir()))
}

func TestGitInfoAdapter_CommitHash(t *testing.T) {
	dir := initRepoWithCommit(t)

	g := gitinfo.New()
	hash, err := g.CommitHash(dir)
	require.NoError(t, err)
	assert.Len(t, hash, 40)
}

func TestGitInfoAdapter_CommitHash_NotARepo(t *testing.T) {
	g := gitinfo.New()
	_, err := g.CommitHash(t.TempDir())
	assert.Error(t, err)
}
