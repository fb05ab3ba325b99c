package cmake

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/unitrun/unitrun/internal/domain"
)

// Driver implements domain.BuildDriver by invoking the cmake binary. The
// toolchain is a black box: this adapter only owns the invocation contract
// (arguments, working directory, exit code meaning).
type Driver struct {
	// Binary is the cmake executable name or path. Defaults to "cmake".
	Binary string
}

func NewDriver() *Driver {
	return &Driver{Binary: "cmake"}
}

// Preflight checks the build tool is installed before anything is staged.
func (d *Driver) Preflight() error {
	if _, err := exec.LookPath(d.Binary); err != nil {
		return &domain.PreconditionError{
			Missing: d.Binary + " not found on PATH",
			Hint:    "install build tools: apt-get install cmake build-essential (Debian/Ubuntu) or brew install cmake (macOS)",
		}
	}
	return nil
}

// Configure runs the generate step ("cmake .") in the workspace. The
// descriptor was written to the workspace root, so source dir and build dir
// coincide. Failure here is fatal to the run.
func (d *Driver) Configure(ctx context.Context, workspace string) (string, error) {
	return d.run(ctx, workspace, ".")
}

// BuildTarget compiles a single executable target. Building per target is
// what lets one generated test's compile failure leave the others runnable.
func (d *Driver) BuildTarget(ctx context.Context, workspace, target string) (string, error) {
	return d.run(ctx, workspace, "--build", ".", "--target", target)
}

func (d *Driver) run(ctx context.Context, workspace string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, d.Binary, args...)
	cmd.Dir = workspace

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	return buf.String(), err
}
