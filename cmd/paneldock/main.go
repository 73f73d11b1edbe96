package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/ericfisherdev/paneldock/internal/adapter/driven/github"
	"github.com/ericfisherdev/paneldock/internal/adapter/driven/memsource"
	"github.com/ericfisherdev/paneldock/internal/adapter/driven/postgres"
	sqliteadapter "github.com/ericfisherdev/paneldock/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/paneldock/internal/adapter/driving/http"
	"github.com/ericfisherdev/paneldock/internal/application"
	"github.com/ericfisherdev/paneldock/internal/config"
	"github.com/ericfisherdev/paneldock/internal/domain/model"
	"github.com/ericfisherdev/paneldock/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_dsn", cfg.DBDSN,
		"poll_interval", cfg.PollInterval,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open the settings store. A postgres DSN selects the shared-server
	// backend; anything else is a SQLite file path.
	var store driven.SettingsStore
	if cfg.UsesPostgres() {
		repo := postgres.NewSettingsRepo(cfg.DBDSN)
		defer func() {
			if closeErr := repo.Close(); closeErr != nil {
				slog.Error("error closing settings store", "error", closeErr)
			}
		}()
		store = repo
		slog.Info("settings store: postgres")
	} else {
		db, err := sqliteadapter.NewDB(cfg.DBDSN)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
		if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
			return err
		}
		store = sqliteadapter.NewSettingsRepo(db)
		slog.Info("settings store: sqlite", "path", cfg.DBDSN)
	}

	// 4. Wire the settings layer: one shared service and one mounted
	// controller per plugin, converging over the in-process bus.
	bus := application.NewBus()

	slackSvc := application.NewSettingsService(store, bus, model.PluginSlack, model.DefaultSlackSettings)
	githubSvc := application.NewSettingsService(store, bus, model.PluginGitHub, model.DefaultGitHubSettings)
	linearSvc := application.NewSettingsService(store, bus, model.PluginLinear, model.DefaultLinearSettings)

	slack := application.NewController[model.SlackSettings, model.SlackSettingsPatch](ctx, slackSvc)
	github := application.NewController[model.GitHubSettings, model.GitHubSettingsPatch](ctx, githubSvc)
	linear := application.NewController[model.LinearSettings, model.LinearSettingsPatch](ctx, linearSvc)
	defer slack.Close()
	defer github.Close()
	defer linear.Close()

	// 5. Entity sources. The fixture source backs every plugin without a live
	// collaborator; a fixtures file can hot-reload it.
	src := memsource.New()
	if cfg.FixturesPath != "" {
		if err := src.LoadFile(cfg.FixturesPath); err != nil {
			slog.Warn("fixtures not loaded", "path", cfg.FixturesPath, "error", err)
		}
		go func() {
			if err := src.Watch(ctx, cfg.FixturesPath); err != nil {
				slog.Warn("fixtures watch stopped", "error", err)
			}
		}()
	}

	var prSource driven.PullRequestSource = src
	var runSource driven.WorkflowRunSource = src
	if cfg.HasGitHubCredentials() {
		ghClient := githubadapter.NewClient(cfg.GitHubToken, cfg.GitHubUsername, github.Current)
		prSource = ghClient
		runSource = ghClient
		slog.Info("github client created", "username", cfg.GitHubUsername)
	} else {
		slog.Info("no github credentials configured, serving code-hosting views from fixtures")
	}

	// 6. Snapshot service: polls the sources and caches entity lists for the
	// derived-view pipeline.
	snapshots := application.NewSnapshotService(src, prSource, runSource, src, slack.Current, cfg.PollInterval)
	go snapshots.Start(ctx)

	panels := application.NewPanelService(snapshots, slack, github, linear, cfg.GitHubUsername, cfg.LinearUser)

	// 7. HTTP surface.
	apiHandler := httphandler.NewHandler(panels, snapshots, slack, github, linear, bus, slog.Default())
	handler := httphandler.NewServeMux(apiHandler, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("paneldock started",
		"listen_addr", cfg.ListenAddr,
		"poll_interval", cfg.PollInterval,
	)

	// 8. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
