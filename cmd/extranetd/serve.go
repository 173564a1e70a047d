package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"extranetd/internal/httpapi"
)

func buildServeCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the extra networks API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.resolve(cmd)
			if err != nil {
				return err
			}
			log := newLogger(cfg, o.logPretty, cmd.ErrOrStderr())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cat := newCatalog(cfg, &log)
			if _, err := cat.RefreshAll(ctx); err != nil {
				// Serve anyway; /readyz reports loading until a refresh succeeds.
				log.Error().Err(err).Msg("initial refresh failed")
			}
			if cfg.Watch {
				cat.StartWatching(ctx)
			}
			defer cat.Close()

			httpapi.SetLogger(log)
			httpapi.SetDefaultLogLevel(cfg.LogLevel)
			httpapi.SetBaseContext(ctx)
			httpapi.SetRefreshTimeoutSeconds(int64(cfg.RefreshTimeoutS))
			httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins, []string{"GET", "POST", "OPTIONS"}, []string{"Content-Type", "X-Log-Level"})

			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           httpapi.NewMux(cat),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", cfg.Addr).Str("lora_dir", cfg.LoraDir).Str("hypernetwork_dir", cfg.HypernetworkDir).Msg("extranetd listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return err
				}
			case <-ctx.Done():
			}
			// Graceful shutdown (Ctrl+C / SIGTERM)
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("graceful shutdown error")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&o.cfg.Addr, "addr", "", "HTTP listen address, e.g. :7861 (defaults EXTRANETD_ADDR)")
	cmd.Flags().BoolVar(&o.cfg.Watch, "watch", false, "Refresh pages automatically when their directories change")
	cmd.Flags().IntVar(&o.cfg.RefreshTimeoutS, "refresh-timeout", 0, "Seconds a refresh request may scan disk; negative disables")
	cmd.Flags().StringVar(&o.corsCSV, "cors-origins", "", "Comma-separated CORS origins; enables CORS when set")
	return cmd
}
