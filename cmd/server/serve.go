package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	web "peminatan/internal/adapters/http"
)

const shutdownGrace = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server (default)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.seedAdmin(ctx); err != nil {
		return err
	}
	if !a.cfg.IsProduction() && a.cfg.Seed.Demo {
		if err := a.seedDemo(ctx); err != nil {
			return err
		}
	}

	csrfKey, err := a.cfg.CSRFKeyBytes()
	if err != nil {
		return err
	}
	handler, err := web.NewMux(a.stores, web.Options{
		CSRFKey:        csrfKey,
		SecureCookies:  a.cfg.IsProduction(),
		MaxUploadBytes: a.cfg.MaxUploadBytes(),
	})
	if err != nil {
		return fmt.Errorf("failed to build handler: %w", err)
	}

	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_started", "addr", srv.Addr, "env", a.cfg.Server.Env, "version", version)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
