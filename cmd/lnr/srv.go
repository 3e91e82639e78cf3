package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"lnr/internal/command"
	"lnr/internal/config"
	"lnr/internal/metrics"
	"lnr/internal/server"
	"lnr/internal/store"
)

func newSrvCmd(cfg *config.Config) *cobra.Command {
	var noSeed bool

	cmd := &cobra.Command{
		Use:   "srv",
		Short: "Run the lnr API server and web UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg, !noSeed)
		},
	}

	cmd.Flags().BoolVar(&noSeed, "no-seed", false, "do not seed the team roster into an empty database")
	return cmd
}

func runServer(ctx context.Context, cfg *config.Config, seed bool) error {
	logger := slog.Default().With("component", "server")

	addr, err := server.ListenAddr(cfg.APIURL)
	if err != nil {
		return err
	}

	logger.Info("opening database", "driver", cfg.DBDriver, "path", cfg.DBPath)
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if seed {
		if err := seedIfEmpty(ctx, st, cfg, logger); err != nil {
			return fmt.Errorf("seed roster: %w", err)
		}
	}

	metricsHandler, err := metrics.Init(ctx, "lnr")
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	opts := server.Options{
		Driver:  cfg.DBDriver,
		Version: version,
		Metrics: metricsHandler,
	}
	if interp := newInterpreter(cfg, st, logger); interp != nil {
		opts.Interpreter = interp
	}

	return server.New(addr, st, logger, opts).ListenAndServe(ctx)
}

// newInterpreter returns nil when no model API key is configured; the
// command bar then answers with an internal error.
func newInterpreter(cfg *config.Config, st store.TaskStore, logger *slog.Logger) *command.OpenAIInterpreter {
	interp, err := command.NewOpenAIInterpreter(command.OpenAIConfig{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
		Timeout: cfg.OpenAITimeout(),
	}, st, logger)
	if err != nil {
		logger.Warn("command bar disabled", "error", err)
		return nil
	}
	logger.Info("command bar enabled", "model", interp.Model())
	return interp
}
