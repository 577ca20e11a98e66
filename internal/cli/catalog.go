package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/esq/internal/store"
)

// CatalogOptions holds flags shared by the catalog commands.
type CatalogOptions struct {
	*RootOptions
	DB string // catalog path; defaults to store.path from the config
}

func (o *CatalogOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.DB, "db", "", "catalog database path (default: store.path from config)")
}

func (o *CatalogOptions) open(formatter *OutputFormatter) (*store.Store, error) {
	path := o.DB
	if path == "" {
		path = o.Config().Store.Path
	}
	formatter.VerboseLog("Opening catalog %s", path)
	st, err := store.Open(path, store.WithLogger(o.Logger()))
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "open catalog", err)
	}
	return st, nil
}

// storeFailure reports a catalog error. ErrNotFound is a plain failure.
func storeFailure(formatter *OutputFormatter, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		_ = formatter.Error(ErrCodeNoDocument, err.Error(), nil)
		return WrapExitError(ExitFailure, "lookup", err)
	}
	_ = formatter.Error(ErrCodeStore, err.Error(), nil)
	return WrapExitError(ExitCommandError, "catalog", err)
}

// SavedPlan is the reported form of a save.
type SavedPlan struct {
	File    string          `json:"file"`
	Created bool            `json:"created"`
	Saved   *store.Document `json:"document"`
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "save <plan|dir>...",
		Short: "Compile plans and save their documents to the catalog",
		Long: `Compile plans and save the documents to the catalog.

A document whose fingerprint is already saved is not saved again; the
existing entry is reported instead.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(opts, args, cmd)
		},
	}
	opts.addFlags(cmd)

	return cmd
}

func runSave(opts *CatalogOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	files, err := FindPlanFiles(paths)
	if err != nil {
		return loadFailure(formatter, err)
	}
	results := CompilePlans(opts.Compiler(), files)
	if errs := failures(results); len(errs) > 0 {
		return planFailures(formatter, "Compilation failed", errs, ExitCommandError)
	}

	st, err := opts.open(formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := commandContext(cmd)
	saved := make([]SavedPlan, 0, len(results))
	for _, r := range results {
		doc, created, err := st.Save(ctx, store.Entry{
			Name:     r.Result.Name,
			Type:     r.Result.Type,
			Builder:  r.Result.Builder,
			Warnings: len(r.Result.Warnings),
		})
		if err != nil {
			return storeFailure(formatter, err)
		}
		saved = append(saved, SavedPlan{File: r.Path, Created: created, Saved: doc})
	}

	if formatter.Format == "json" {
		return formatter.Success(saved)
	}
	for _, s := range saved {
		verb := "saved"
		if !s.Created {
			verb = "unchanged"
		}
		fmt.Fprintf(formatter.Writer, "%s %s #%d %s %s\n", verb, s.Saved.Name, s.Saved.Seq, s.Saved.ID, s.Saved.Fingerprint)
	}
	return nil
}

// ListOptions holds flags for the list command.
type ListOptions struct {
	CatalogOptions
	Name  string
	Limit int
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{CatalogOptions: CatalogOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List saved documents in save order",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}
	opts.addFlags(cmd)
	cmd.Flags().StringVar(&opts.Name, "name", "", "only documents saved from plans with this name")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of documents (0 = all)")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	if opts.Limit < 0 {
		_ = formatter.Error(ErrCodeUsage, "--limit must not be negative", nil)
		return NewExitError(ExitCommandError, "--limit must not be negative")
	}

	st, err := opts.open(formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	docs, err := st.List(commandContext(cmd), store.ListOptions{Name: opts.Name, Limit: opts.Limit})
	if err != nil {
		return storeFailure(formatter, err)
	}

	if formatter.Format == "json" {
		if docs == nil {
			docs = []store.Document{}
		}
		return formatter.Success(docs)
	}
	if len(docs) == 0 {
		fmt.Fprintln(formatter.Writer, "No saved documents")
		return nil
	}
	for _, d := range docs {
		fmt.Fprintf(formatter.Writer, "#%d  %s  %-24s %-16s %s  %d warning(s)\n",
			d.Seq, d.CreatedAt.Format("2006-01-02 15:04:05"), d.Name, d.Type, d.Fingerprint[:12], d.Warnings)
	}
	return nil
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "show <id|fingerprint>",
		Short:         "Print a saved document",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}
	opts.addFlags(cmd)

	return cmd
}

func runShow(opts *CatalogOptions, ref string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := opts.open(formatter)
	if err != nil {
		return err
	}
	defer st.Close()

	doc, err := st.Get(commandContext(cmd), ref)
	if err != nil {
		return storeFailure(formatter, err)
	}
	if formatter.Format == "json" {
		return formatter.Success(doc)
	}
	obj, err := doc.Object()
	if err != nil {
		return storeFailure(formatter, err)
	}
	formatter.VerboseLog("%s #%d %s %s", doc.Name, doc.Seq, doc.Type, doc.Fingerprint)
	return formatter.Document(obj)
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "delete <id|fingerprint>",
		Short:         "Remove a saved document",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)
			st, err := opts.open(formatter)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(commandContext(cmd), args[0]); err != nil {
				return storeFailure(formatter, err)
			}
			if formatter.Format == "json" {
				return formatter.Success(map[string]string{"deleted": args[0]})
			}
			fmt.Fprintf(formatter.Writer, "deleted %s\n", args[0])
			return nil
		},
	}
	opts.addFlags(cmd)

	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
