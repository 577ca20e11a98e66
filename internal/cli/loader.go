package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/esq/internal/compiler"
)

// Error code constants shared by all CLI commands. Plan errors carry the
// compiler's own E2xx codes.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No plan files found
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeStore       = "E008" // Catalog open/read/write error
	ErrCodeNoDocument  = "E009" // Catalog has no matching document
	ErrCodeUsage       = "E010" // Flag combination is invalid
)

// planExts are the file extensions treated as plans.
var planExts = map[string]bool{".yaml": true, ".yml": true, ".cue": true, ".json": true}

// LoadError is a failure to locate plan files.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// FindPlanFiles expands paths into plan files. Files are taken as given;
// directories are walked for .yaml, .yml, .cue and .json files, sorted.
func FindPlanFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("plan path not found: %s", path)}
		}
		if err != nil {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing %s: %v", path, err)}
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		var found []string
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && planExts[filepath.Ext(p)] {
				found = append(found, p)
			}
			return nil
		})
		if err != nil {
			return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
		}
		if len(found) == 0 {
			return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no plan files found in %s", path)}
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}

// PlanResult is the outcome of compiling one plan file.
type PlanResult struct {
	Path   string
	Result *compiler.Result
	Err    error
}

// CompilePlans compiles every file, collecting per-file errors instead of
// stopping at the first.
func CompilePlans(c *compiler.Compiler, files []string) []PlanResult {
	results := make([]PlanResult, 0, len(files))
	for _, path := range files {
		pr := PlanResult{Path: path}
		plan, err := compiler.LoadFile(path)
		if err == nil {
			pr.Result, err = c.Compile(plan)
		}
		pr.Err = err
		results = append(results, pr)
	}
	return results
}

// PlanError is the reported form of a failed plan.
type PlanError struct {
	File    string `json:"file"`
	Code    string `json:"code"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// String renders file:line:col: [code] path: message.
func (e PlanError) String() string {
	where := e.File
	if e.Line > 0 {
		where = fmt.Sprintf("%s:%d:%d", e.File, e.Line, e.Column)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: [%s] %s: %s", where, e.Code, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: [%s] %s", where, e.Code, e.Message)
}

// toPlanError converts a compile failure for file.
func toPlanError(file string, err error) PlanError {
	var ce *compiler.CompileError
	if errors.As(err, &ce) {
		pe := PlanError{File: file, Code: ce.Code, Path: ce.Path, Message: ce.Message, Line: ce.Line, Column: ce.Column}
		if ce.File != "" {
			pe.File = ce.File
		}
		return pe
	}
	return PlanError{File: file, Code: ErrCodeGeneric, Message: err.Error()}
}

// failures returns the errors among results.
func failures(results []PlanResult) []PlanError {
	var errs []PlanError
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, toPlanError(r.Path, r.Err))
		}
	}
	return errs
}

// newFormatter builds the formatter for cmd from the root options.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
		Indent:    opts.Config().Output.IndentString(),
	}
}

// loadFailure reports a FindPlanFiles error as a command error.
func loadFailure(formatter *OutputFormatter, err error) error {
	code, message := ErrCodeGeneric, err.Error()
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		code, message = loadErr.Code, loadErr.Message
	}
	_ = formatter.Error(code, message, nil)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

// planFailures reports plan errors. Exit code is the caller's choice.
func planFailures(formatter *OutputFormatter, header string, errs []PlanError, code int) error {
	if formatter.Format == "json" {
		_ = formatter.encode(CLIResponse{
			Status: "error",
			Data:   map[string]any{"errors": errs},
			Error:  &CLIError{Code: errs[0].Code, Message: errs[0].Message},
		})
	} else {
		fmt.Fprintf(formatter.Writer, "✗ %s\n\n", header)
		for _, e := range errs {
			fmt.Fprintf(formatter.Writer, "  %s\n", e)
		}
	}
	return NewExitError(code, fmt.Sprintf("%s with %d error(s)", header, len(errs)))
}
