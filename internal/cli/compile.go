package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/esq/internal/compiler"
	"github.com/roach88/esq/internal/dsl"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompiledPlan is the reported form of a compiled plan.
type CompiledPlan struct {
	File        string             `json:"file"`
	Name        string             `json:"name"`
	Type        string             `json:"type"`
	Fingerprint string             `json:"fingerprint"`
	Document    dsl.Object         `json:"document"`
	Warnings    []compiler.Warning `json:"warnings"`
}

func newCompiledPlan(pr PlanResult) CompiledPlan {
	warnings := pr.Result.Warnings
	if warnings == nil {
		warnings = []compiler.Warning{}
	}
	return CompiledPlan{
		File:        pr.Path,
		Name:        pr.Result.Name,
		Type:        pr.Result.Type,
		Fingerprint: pr.Result.Fingerprint,
		Document:    pr.Result.Document(),
		Warnings:    warnings,
	}
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <plan|dir>...",
		Short: "Compile plans to Query DSL request bodies",
		Long: `Compile YAML or CUE plans to Elasticsearch Query DSL request bodies.

In text format the document is printed as JSON and lint warnings go to
stderr. --output writes the document of a single plan to a file.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the document to this file")

	return cmd
}

func runCompile(opts *CompileOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	files, err := FindPlanFiles(paths)
	if err != nil {
		return loadFailure(formatter, err)
	}
	formatter.VerboseLog("Found %d plan file(s)", len(files))

	if opts.Output != "" && len(files) != 1 {
		_ = formatter.Error(ErrCodeUsage, "--output needs exactly one plan", nil)
		return NewExitError(ExitCommandError, "--output needs exactly one plan")
	}

	results := CompilePlans(opts.Compiler(), files)
	if errs := failures(results); len(errs) > 0 {
		return planFailures(formatter, "Compilation failed", errs, ExitCommandError)
	}

	compiled := make([]CompiledPlan, len(results))
	for i, r := range results {
		compiled[i] = newCompiledPlan(r)
		formatter.VerboseLog("Compiled %s: %s %s", r.Path, compiled[i].Type, compiled[i].Fingerprint)
	}

	if opts.Output != "" {
		if err := writeDocument(compiled[0].Document, formatter.Indent, opts.Output); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
			return WrapExitError(ExitCommandError, "writing output file", err)
		}
	}

	return outputCompileSuccess(formatter, compiled, opts.Output)
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, compiled []CompiledPlan, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(compiled)
	}

	for _, p := range compiled {
		for _, w := range p.Warnings {
			fmt.Fprintf(formatter.GetErrWriter(), "%s: warning %s\n", p.File, w)
		}
	}

	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote %s (%s) to %s\n", compiled[0].Name, compiled[0].Fingerprint, outputFile)
		return nil
	}

	for _, p := range compiled {
		if len(compiled) > 1 {
			fmt.Fprintf(formatter.Writer, "# %s %s\n", p.Name, p.Fingerprint)
		}
		if err := formatter.Document(p.Document); err != nil {
			return err
		}
	}
	return nil
}

// writeDocument writes doc as JSON to filename.
func writeDocument(doc dsl.Object, indent, filename string) error {
	var (
		data []byte
		err  error
	)
	if indent != "" {
		data, err = wire.MarshalIndent(doc, "", indent)
	} else {
		data, err = wire.Marshal(doc)
	}
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if err := os.WriteFile(filename, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
