package execrunner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unitrun/unitrun/internal/adapters/outbound/execrunner"
)

// writeScript stands in for a built test executable.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test_module")
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestRunner_Run_ExitZero(t *testing.T) {
	exe := writeScript(t, `echo "2 Tests 0 Failures 0 Ignored"; exit 0`)

	r := execrunner.New()
	res, err := r.Run(context.Background(), exe, 10*time.Second)
	require.NoError(t, err)

	assert.Equal(t, 0, res.ExitCode)
	assert.False(t, res.TimedOut)
	assert.Contains(t, res.Output, "2 Tests 0 Failures 0 Ignored")
	assert.Greater(t, res.Duration, time.Duration(0))
}

func TestRunner_Run_NonZeroExit(t *testing.T) {
	exe := writeScript(t, `echo "boom" >&2; exit 3`)

	r := execrunner.New()
	res, err := r.Run(context.Background(), exe, 10*time.Second)
	require.NoError(t, err, "a failing test is a result, not a runner error")

	assert.Equal(t, 3, res.ExitCode)
	assert.False(t, res.TimedOut)
	assert.Contains(t, res.Output, "boom", "stderr is captured alongside stdout")
}

func TestRunner_Run_Timeout(t *testing.T) {
	exe := writeScript(t, `sleep 30`)

	r := execrunner.New()
	start := time.Now()
	res, err := r.Run(context.Background(), exe, 200*time.Millisecond)
	require.NoError(t, err)

	assert.True(t, res.TimedOut)
	assert.Less(t, time.Since(start), 10*time.Second, "process must be terminated, not awaited")
}

func TestRunner_Run_MissingExecutable(t *testing.T) {
	r := execrunner.New()
	_, err := r.Run(context.Background(), filepath.Join(t.TempDir(), "nope"), time.Second)
	assert.Error(t, err)
}

func TestRunner_Run_Independent(t *testing.T) {
	// Re-running the same binary yields the same classification.
	exe := writeScript(t, `exit 1`)

	r := execrunner.New()
	for i := 0; i < 3; i++ {
		res, err := r.Run(context.Background(), exe, 10*time.Second)
		require.NoError(t, err)
		assert.Equal(t, 1, res.ExitCode)
	}
}
