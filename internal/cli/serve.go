package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/esq/internal/metrics"
	"github.com/roach88/esq/internal/server"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	CatalogOptions
	Port      int
	NoCatalog bool
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{CatalogOptions: CatalogOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the compile service over HTTP",
		Long: `Run the compile service.

  POST /v1/compile   POST /v1/lint   /v1/documents   GET /healthz   GET /metrics

Stops gracefully on SIGINT or SIGTERM.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}
	opts.addFlags(cmd)
	cmd.Flags().IntVarP(&opts.Port, "port", "p", 0, "listen port (default: server.port from config)")
	cmd.Flags().BoolVar(&opts.NoCatalog, "no-catalog", false, "serve compile and lint only")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	cfg := opts.Config().Server
	logger := opts.Logger()

	port := cfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}
	if port <= 0 || port > 65535 {
		_ = formatter.Error(ErrCodeUsage, fmt.Sprintf("port must be between 1 and 65535, got %d", port), nil)
		return NewExitError(ExitCommandError, "invalid port")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	srvOpts := []server.Option{
		server.WithLogger(logger),
		server.WithMetrics(metrics.New(reg), reg),
	}
	if !opts.NoCatalog {
		st, err := opts.open(formatter)
		if err != nil {
			return err
		}
		defer st.Close()
		srvOpts = append(srvOpts, server.WithCatalog(st))
	}
	srv := server.New(opts.Compiler(), srvOpts...)

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf(":%d", port)
	logger.Info("Starting esq compile service", zap.String("addr", addr), zap.Bool("catalog", !opts.NoCatalog))
	err := srv.ListenAndServe(ctx, addr,
		time.Duration(cfg.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.ShutdownSec)*time.Second,
	)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "serve", err)
	}
	return nil
}

