package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/unitrun/unitrun/internal/adapters/outbound/cmake"
	configloader "github.com/unitrun/unitrun/internal/adapters/outbound/config"
	"github.com/unitrun/unitrun/internal/adapters/outbound/execrunner"
	"github.com/unitrun/unitrun/internal/adapters/outbound/gitinfo"
	"github.com/unitrun/unitrun/internal/adapters/outbound/lcov"
	"github.com/unitrun/unitrun/internal/adapters/outbound/reportwriter"
	"github.com/unitrun/unitrun/internal/adapters/outbound/scanner"
	"github.com/unitrun/unitrun/internal/adapters/outbound/stager"
	"github.com/unitrun/unitrun/internal/adapters/outbound/tui"
	"github.com/unitrun/unitrun/internal/application"
	"github.com/unitrun/unitrun/internal/domain"
)

// ErrRunFailed marks a completed run with non-passing results. The summary
// was already printed; main only needs the non-zero exit.
var ErrRunFailed = errors.New("one or more test targets did not pass")

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("repo-path", ".", "Root of the C repository to scan")
	cmd.Flags().String("output", "build", "Workspace/output directory, relative to the repo root unless absolute")
	cmd.Flags().BoolP("verbose", "v", false, "Enable verbose progress output")
	cmd.Flags().Bool("json", false, "Print the run report as JSON instead of the styled summary")
}

// newRunService builds the production service with all real adapters.
func newRunService() *application.RunService {
	return application.NewRunService(
		configloader.New(),
		scanner.New(),
		stager.New(),
		cmake.NewGenerator(),
		cmake.NewDriver(),
		execrunner.New(),
		lcov.New(),
		reportwriter.New(),
		gitinfo.New(),
	)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	repoPath, _ := cmd.Flags().GetString("repo-path")
	output, _ := cmd.Flags().GetString("output")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	var progress io.Writer = io.Discard
	if verbose && !jsonOutput {
		progress = cmd.ErrOrStderr()
	}

	svc := newRunService()
	report, err := svc.Run(cmd.Context(), application.RunOptions{
		RepoPath:  repoPath,
		OutputDir: output,
		Verbose:   verbose,
		Progress:  progress,
	})

	switch {
	case errors.Is(err, domain.ErrNoCompilableTests):
		// Valid empty outcome with its own exit code. Still print what we
		// know: unmapped report files explain why nothing ran.
		if report != nil {
			renderReport(cmd, report, jsonOutput)
		}
		return err
	case err != nil:
		return err
	}

	renderReport(cmd, report, jsonOutput)
	if !report.Success() {
		return ErrRunFailed
	}
	return nil
}

func renderReport(cmd *cobra.Command, report *domain.RunReport, jsonOutput bool) {
	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
		return
	}
	fmt.Fprint(cmd.OutOrStdout(), tui.RenderRunReport(report))
}
