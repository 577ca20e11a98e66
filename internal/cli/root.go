package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/esq/internal/compiler"
	"github.com/roach88/esq/internal/config"
	logpkg "github.com/roach88/esq/internal/logger"
	"github.com/roach88/esq/internal/registry"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	cfg    *config.Config
	logger *zap.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// Config returns the loaded configuration, or the defaults when the root
// command has not loaded one.
func (o *RootOptions) Config() config.Config {
	if o.cfg == nil {
		return config.Default()
	}
	return *o.cfg
}

// Logger returns the command logger. It discards output until the root
// command has built one.
func (o *RootOptions) Logger() *zap.Logger {
	if o.logger == nil {
		return zap.NewNop()
	}
	return o.logger
}

// Compiler returns a compiler over the builtin registry.
func (o *RootOptions) Compiler() *compiler.Compiler {
	return compiler.New(registry.Default(), o.Logger())
}

// setup loads configuration and builds the logger. An explicit --format
// wins over output.format from the config file.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("format") {
		o.Format = cfg.Output.Format
	}
	if !isValidFormat(o.Format) {
		return fmt.Errorf("invalid format %q: must be one of %v", o.Format, ValidFormats)
	}

	level := cfg.Logging.Level
	switch {
	case o.Verbose:
		level = "debug"
	case level == "":
		level = "warn"
	}
	logger, err := logpkg.NewLogger(cfg.Logging.Env, level)
	if err != nil {
		return err
	}
	o.cfg = &cfg
	o.logger = logger
	return nil
}

// NewRootCommand creates the root command for the esq CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "esq",
		Short: "esq - Elasticsearch Query DSL plans",
		Long: `Compile YAML or CUE plans into Elasticsearch Query DSL request bodies.

Plans describe builder graphs (queries, filters, aggregations, facets, shapes,
rescorers, sorts). esq validates them, reports deprecated or silently dropped
constructs, and keeps a catalog of compiled documents keyed by fingerprint.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = opts.Logger().Sync()
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", config.DefaultPath, "config file (missing file uses defaults)")

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewLintCommand(opts))
	cmd.AddCommand(NewSaveCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
