package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/esq/internal/compiler"
)

// LintOptions holds flags for the lint command.
type LintOptions struct {
	*RootOptions
	Strict bool
}

// LintFinding is one warning in one file.
type LintFinding struct {
	File string `json:"file"`
	compiler.Warning
}

// NewLintCommand creates the lint command.
func NewLintCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LintOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "lint <plan|dir>...",
		Short: "Report deprecated constructs and dropped enum values",
		Long: `Lint YAML or CUE plans.

Warnings:
  W200  type removed from Elasticsearch (facets)
  W201  key ignored or removed by Elasticsearch (_cache, disable_coord, ...)
  W202  value outside a soft enum; the builder drops it silently

Warnings never fail the command unless --strict is set.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "exit 1 when any warning is reported")

	return cmd
}

func runLint(opts *LintOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	files, err := FindPlanFiles(paths)
	if err != nil {
		return loadFailure(formatter, err)
	}

	results := CompilePlans(opts.Compiler(), files)
	if errs := failures(results); len(errs) > 0 {
		return planFailures(formatter, "Lint failed", errs, ExitCommandError)
	}

	findings := []LintFinding{}
	for _, r := range results {
		for _, w := range r.Result.Warnings {
			findings = append(findings, LintFinding{File: r.Path, Warning: w})
		}
	}

	if formatter.Format == "json" {
		if err := formatter.Success(map[string]any{"files": len(files), "warnings": findings}); err != nil {
			return err
		}
	} else {
		for _, f := range findings {
			fmt.Fprintf(formatter.Writer, "%s: %s\n", f.File, f.Warning)
		}
		fmt.Fprintf(formatter.Writer, "%d warning(s) in %d plan(s)\n", len(findings), len(files))
	}

	if opts.Strict && len(findings) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("lint reported %d warning(s)", len(findings)))
	}
	return nil
}
