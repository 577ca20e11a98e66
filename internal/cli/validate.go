package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool        `json:"valid"`
	Files  int         `json:"files"`
	Errors []PlanError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <plan|dir>...",
		Short: "Check plans compile without printing documents",
		Long: `Validate YAML or CUE plans without printing their documents.

Every plan is compiled and every failure is reported with its file
position and plan path.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	files, err := FindPlanFiles(paths)
	if err != nil {
		return loadFailure(formatter, err)
	}
	formatter.VerboseLog("Found %d plan file(s)", len(files))

	results := CompilePlans(opts.Compiler(), files)
	for _, r := range results {
		if r.Err == nil {
			formatter.VerboseLog("Valid: %s", r.Path)
		}
	}

	if errs := failures(results); len(errs) > 0 {
		// Invalid plans are a validation failure (exit code 1).
		return planFailures(formatter, "Validation failed", errs, ExitFailure)
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Files: len(files)})
	}
	fmt.Fprintf(formatter.Writer, "✓ %d plan(s) valid\n", len(files))
	return nil
}
