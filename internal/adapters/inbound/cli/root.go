// Package cli exposes unitrun's command-line surface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unitrun",
		Short: "Build, run and cover AI-generated C unit tests",
		Long: "unitrun discovers AI-generated C unit tests that are known to compile, " +
			"stages them with the repository sources and the Unity framework into a CMake " +
			"workspace, builds and runs every test target, and aggregates pass/fail and " +
			"LCOV coverage results into a single summary.\n\n" +
			"Exit codes: 0 all discovered tests passed; 1 any failure; 2 no compilable tests found.",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runPipeline,
	}
	addRunFlags(cmd)
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}
