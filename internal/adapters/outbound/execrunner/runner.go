// Package execrunner runs built test executables as isolated subprocesses.
package execrunner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/unitrun/unitrun/internal/domain"
)

// killGracePeriod bounds how long a timed-out process may linger after its
// context is cancelled before the runtime sends SIGKILL.
const killGracePeriod = 2 * time.Second

// Runner implements domain.TestExecutor. Each run is independent: own
// subprocess, own output buffer, working directory pinned to the
// executable's directory so relative fixture paths behave the same as a
// manual run from the workspace.
type Runner struct{}

func New() *Runner {
	return &Runner{}
}

// Run executes one test binary with a wall-clock timeout. A process that
// outlives the timeout is forcibly terminated and classified TimedOut; its
// exit code is meaningless and left at -1.
func (r *Runner) Run(ctx context.Context, executable string, timeout time.Duration) (domain.ExecResult, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, executable)
	cmd.Dir = filepath.Dir(executable)
	cmd.WaitDelay = killGracePeriod

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	start := time.Now()
	err := cmd.Run()
	res := domain.ExecResult{
		Output:   buf.String(),
		Duration: time.Since(start),
		ExitCode: -1,
	}

	if runCtx.Err() == context.DeadlineExceeded {
		res.TimedOut = true
		return res, nil
	}

	if err == nil {
		res.ExitCode = 0
		return res, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	// Could not start at all (missing binary, permission). The caller
	// decides how to classify this.
	return res, err
}
