package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/pocketledger/client/internal/metrics"
	"github.com/pocketledger/client/pkg/router"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the local API",
		Long:  "Serve the local API on LISTEN_ADDR and observe the connectivity to the finance server until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cmd, version)
		},
	}
}

func runServe(ctx context.Context, cmd *cobra.Command, version string) error {
	a, err := newApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	if err := metrics.Register(); err != nil {
		log.Warn().Err(err).Msg("Metrics")
	}
	defer metrics.Unregister()

	base, err := baseURL(a.cfg.ListenAddr)
	if err != nil {
		return err
	}

	router.SetVersion(version)
	r, err := router.Config(base, a.cfg)
	if err != nil {
		return err
	}
	router.AttachRoutes(a.controller(), a.db, a.cfg.EnablePprof, r.Group("/"))

	listener, err := net.Listen("tcp", a.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", a.cfg.ListenAddr, err)
	}

	go a.connectivity.Run(ctx)

	// Request contexts end with ctx so that streams stop on shutdown
	server := &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errs := make(chan error, 1)
	go func() {
		errs <- server.Serve(listener)
	}()

	log.Info().Str("address", listener.Addr().String()).Msg("Serving local API")

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info().Msg("Shutting down")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// baseURL returns the URL the local API is reachable at when listening on addr.
func baseURL(addr string) (*url.URL, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("LISTEN_ADDR %q is not a valid address: %w", addr, err)
	}

	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}

	return &url.URL{Scheme: "http", Host: net.JoinHostPort(host, port)}, nil
}
