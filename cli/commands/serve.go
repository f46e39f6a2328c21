package commands

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/mwantia/hostfs/cli/config"
	"github.com/mwantia/hostfs/host"
	"github.com/mwantia/hostfs/host/metrics"
	"github.com/mwantia/hostfs/host/remote"
	"github.com/mwantia/hostfs/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(opts *rootOptions) *cobra.Command {
	var address string

	command := &cobra.Command{
		Use:   "serve",
		Short: "Expose the configured backend as a websocket host",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, args []string) error {
			ctx := command.Context()
			if address != "" {
				opts.config.Server.Address = address
			}

			logger := opts.config.NewLogger("hostfs", false)

			local, err := opts.openLocal(ctx, logger)
			if err != nil {
				return err
			}
			defer local.Close(context.Background())

			listener, err := net.Listen("tcp", opts.config.Server.Address)
			if err != nil {
				return err
			}

			return serve(ctx, listener, NewHandler(opts.config, local, logger), logger)
		},
	}

	command.Flags().StringVarP(&address, "address", "a", "", "override server.address")
	return command
}

// NewHandler mounts the websocket host bridge and, if enabled, the metrics endpoint.
func NewHandler(cfg *config.Config, h host.Host, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()

	if cfg.Server.ReadOnly {
		h = host.NewReadOnly(h)
		logger.Info("Serving host read-only")
	}

	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		h = metrics.New(registry).Wrap(h)
		mux.Handle(cfg.Metrics.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		logger.Info("Serving metrics on '%s'", cfg.Metrics.Path)
	}

	mux.Handle(cfg.Server.Path, remote.NewServer(h, remote.WithServerLogger(logger.Named("remote"))))
	return mux
}

func serve(ctx context.Context, listener net.Listener, handler http.Handler, logger *log.Logger) error {
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening on '%s'", listener.Addr())
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
