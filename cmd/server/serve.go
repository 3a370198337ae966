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

	"github.com/joho/godotenv"
	"github.com/leca/arexplorer-images/internal/config"
	"github.com/leca/arexplorer-images/internal/logging"
	"github.com/leca/arexplorer-images/internal/router"
	"github.com/leca/arexplorer-images/internal/storage"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP (and optionally HTTPS) image server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	configPath, configPathErr := cmd.Flags().GetString("config")
	if configPathErr != nil {
		return fmt.Errorf("failed to get config: %w", configPathErr)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := logging.CreateLogger(os.Stdout, logging.ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger)
	slog.Debug("Read config", "config", cfg)

	store, err := storage.NewFileSystem(cfg.StoragePath, logger)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	srv := router.New(store, cfg, logger)

	servers := []*http.Server{{Addr: cfg.ListenAddr, Handler: srv.Router}}
	if cfg.EnableTLS {
		servers = append(servers, &http.Server{Addr: cfg.TLSListenAddr, Handler: srv.Router})
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	for i, hs := range servers {
		tls := i > 0
		g.Go(func() error {
			slog.Info("starting server", "addr", hs.Addr, "tls", tls, "storage", cfg.StoragePath)
			var err error
			if tls {
				err = hs.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
			} else {
				err = hs.ListenAndServe()
			}
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server on %s failed: %w", hs.Addr, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		var errs []error
		for _, hs := range servers {
			errs = append(errs, hs.Shutdown(shutdownCtx))
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
