package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/oxword/internal/bootstrap"
	"github.com/at-ishikawa/oxword/internal/config"
	"github.com/at-ishikawa/oxword/internal/database"
	"github.com/at-ishikawa/oxword/internal/dictionary"
	"github.com/at-ishikawa/oxword/internal/server"
)

const (
	connectAttempts   = 10
	connectDelay      = time.Second
	readHeaderTimeout = 5 * time.Second
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile string
	var migrate bool

	cmd := &cobra.Command{
		Use:           "oxword-server",
		Short:         "Serve the word store over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFile == "" {
				configFile = os.Getenv("OXWORD_CONFIG")
			}
			loader, err := config.NewConfigLoader(configFile)
			if err != nil {
				return fmt.Errorf("config.NewConfigLoader() > %w", err)
			}
			cfg, err := loader.Load()
			if err != nil {
				return fmt.Errorf("loader.Load() > %w", err)
			}
			return run(cmd.Context(), cfg, migrate)
		},
	}
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (default: $OXWORD_CONFIG)")
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply schema migrations before serving")
	return cmd
}

func run(ctx context.Context, cfg *config.Config, migrate bool) error {
	logger := slog.Default()
	app := bootstrap.New()

	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("database.Open() > %w", err)
	}
	app.AddShutdownHook("database", func(context.Context) error {
		return db.Close()
	})

	return app.Run(ctx, func(ctx context.Context) error {
		if err := database.WaitForConnection(ctx, db, connectAttempts, connectDelay); err != nil {
			return fmt.Errorf("database.WaitForConnection() > %w", err)
		}
		if migrate {
			if err := database.Migrate(ctx, db, database.Up); err != nil {
				return fmt.Errorf("database.Migrate() > %w", err)
			}
		}

		srv := &http.Server{
			Addr:              net.JoinHostPort("", strconv.Itoa(cfg.Server.Port)),
			Handler:           server.NewHandler(cfg.Server, dictionary.NewDBWordRepository(db)),
			ReadHeaderTimeout: readHeaderTimeout,
		}
		app.AddShutdownHook("http server", srv.Shutdown)

		errCh := make(chan error, 1)
		go func() {
			logger.Info("starting server", "addr", srv.Addr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("srv.ListenAndServe() > %w", err)
		case <-ctx.Done():
			logger.Info("shutting down server")
			return nil
		}
	})
}
