package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/ewilliams-labs/genrelay/internal/adapters/ollama"
	"github.com/ewilliams-labs/genrelay/internal/adapters/rest"
	"github.com/ewilliams-labs/genrelay/internal/adapters/spotify"
	"github.com/ewilliams-labs/genrelay/internal/adapters/sqlite"
	"github.com/ewilliams-labs/genrelay/internal/config"
	"github.com/ewilliams-labs/genrelay/internal/core/services"
	"github.com/ewilliams-labs/genrelay/internal/logging"
	"github.com/ewilliams-labs/genrelay/internal/worker"
)

const shutdownTimeout = 10 * time.Second

// Runner holds the loaded configuration shared by every command.
type Runner struct {
	cfg    *config.Config
	logger *log.Logger
}

func (r *Runner) load(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	// init-config must work before any config exists.
	if cmd.Args().First() == "init-config" {
		return ctx, nil
	}

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return ctx, err
	}
	r.cfg = cfg
	r.logger = logging.New(os.Stderr, cfg.Log.Level)
	return ctx, nil
}

func (r *Runner) catalogs() *spotify.Factory {
	return spotify.NewFactory(spotify.FactoryOptions{
		BaseURL:           r.cfg.Spotify.BaseURL,
		MaxRetries:        r.cfg.Spotify.MaxRetries,
		RetryBackoff:      r.cfg.Spotify.RetryBackoff.Duration,
		RequestsPerSecond: r.cfg.Spotify.RequestsPerSecond,
		Logger:            r.logger,
	})
}

func (r *Runner) orchestrator(catalogs *spotify.Factory) *services.Orchestrator {
	completer := ollama.NewClient(r.cfg.Generator.Host, r.cfg.Generator.Model, r.cfg.Generator.Timeout.Duration)
	return services.NewOrchestrator(
		catalogs,
		services.NewResolver(r.cfg.Spotify.Market, r.logger),
		services.NewGenerator(completer, r.cfg.Generator.Timeout.Duration, r.logger),
		services.NewEnricher(r.logger),
		r.logger,
	)
}

// Serve runs the HTTP API until SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.cfg.Validate(); err != nil {
		return err
	}

	catalogs := r.catalogs()
	opts := rest.Options{
		Recommendations: r.orchestrator(catalogs),
		AllowedOrigins:  r.cfg.Server.AllowedOrigins,
		Auth: spotify.NewAuthorizer(spotify.AuthConfig{
			ClientID:     r.cfg.Spotify.ClientID,
			ClientSecret: r.cfg.Spotify.ClientSecret,
			RedirectURI:  r.cfg.Spotify.RedirectURI,
		}),
		Logger: r.logger,
	}

	var pool *worker.Pool
	if r.cfg.Ledger.Path != "" {
		ledger, err := sqlite.NewAdapter(r.cfg.Ledger.Path)
		if err != nil {
			return fmt.Errorf("failed to initialize ledger: %w", err)
		}
		defer ledger.Close()

		pool = worker.NewPool(ledger, r.cfg.Ledger.Workers, r.cfg.Ledger.QueueSize, r.logger)
		pool.Start()
		// Stop runs before ledger.Close so queued entries are flushed.
		defer pool.Stop()

		opts.Ledger = ledger
		opts.Playlists = services.NewPlaylistService(catalogs, pool, r.logger)
	} else {
		opts.Playlists = services.NewPlaylistService(catalogs, nil, r.logger)
	}

	handler := rest.NewHandler(opts)
	handler.Walk(func(method, path string) {
		r.logger.Debug("route", "method", method, "path", path)
	})

	srv := &http.Server{
		Addr:              r.cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: r.cfg.Server.ReadHeaderTimeout.Duration,
	}

	serverErr := make(chan error, 1)
	go func() {
		r.logger.Info("genrelay API listening", "addr", srv.Addr)
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		r.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}

// Recommend runs the pipeline once and prints the payload to stdout.
func (r *Runner) Recommend(ctx context.Context, cmd *cli.Command) error {
	payload, err := r.orchestrator(r.catalogs()).RecommendGenres(ctx, cmd.String("query"), cmd.String("token"))
	if err != nil {
		return err
	}
	return printJSON(payload, cmd.Bool("pretty"))
}

// History prints the most recent ledger entries.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	if r.cfg.Ledger.Path == "" {
		return errors.New("ledger is disabled: set ledger.path or LEDGER_PATH")
	}
	ledger, err := sqlite.NewAdapter(r.cfg.Ledger.Path)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer ledger.Close()

	entries, err := ledger.Recent(ctx, cmd.Int("limit"))
	if err != nil {
		return err
	}
	return printJSON(entries, true)
}

// InitConfig writes the example configuration.
func (r *Runner) InitConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")
	if err := config.WriteExample(path); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", path)
	return nil
}

func printJSON(v any, pretty bool) error {
	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
