package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mygov_dao/internal/api"
)

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the http api",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := openNode(c.cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer n.Close()

			// a memory store starts empty every time, so a configured deployer initializes it
			if !n.dao.Initialized() && c.cfg.Deployer != "" {
				treasury, err := n.initialize("")
				if err != nil {
					return fmt.Errorf("initialize: %w", err)
				}
				n.log.Info("contract initialized", zap.String("deployer", c.cfg.Deployer), zap.String("treasury", treasury.String()))
			}
			if !n.dao.Initialized() {
				n.log.Warn("contract not initialized, run mygov init first")
			}

			opts := api.Options{
				Logger:            n.log.Named("http"),
				AllowTimeOverride: c.cfg.AllowTimeOverride,
				MetricsPath:       c.cfg.MetricsPath,
			}
			if n.registry != nil {
				opts.Metrics = promhttp.HandlerFor(n.registry, promhttp.HandlerOpts{})
			}
			srv := &http.Server{
				Addr:              c.cfg.HTTPAddr,
				Handler:           api.NewRouter(n.dao, opts),
				ReadHeaderTimeout: 5 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				n.log.Info("http api listening", zap.String("addr", c.cfg.HTTPAddr))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("http server: %w", err)
			case <-ctx.Done():
			}

			n.log.Info("shutting down", zap.Duration("timeout", c.cfg.ShutdownTimeout))
			shutdownCtx, cancel := context.WithTimeout(context.Background(), c.cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		},
	}
}
