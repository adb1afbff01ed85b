package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/blog-comb/app/cfg"
	"github.com/lysyi3m/blog-comb/app/config"
	"github.com/lysyi3m/blog-comb/app/content"
	"github.com/lysyi3m/blog-comb/app/database"
	"github.com/lysyi3m/blog-comb/app/feed"
	"github.com/lysyi3m/blog-comb/app/importer"
	"github.com/lysyi3m/blog-comb/app/plaintext"
	"github.com/lysyi3m/blog-comb/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if appCfg == nil {
		// Help was shown
		return
	}

	level := slog.LevelInfo
	if appCfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch appCfg.Command {
	case cfg.CommandImport:
		err = runImport(ctx)
	default:
		err = runBuild(ctx)
	}

	if err != nil {
		slog.Error("Command failed", "command", appCfg.Command, "error", err)
		stop()
		os.Exit(1)
	}
}

func runBuild(ctx context.Context) error {
	appCfg := cfg.Get()

	slog.Info("Starting Blog Comb build", "version", appCfg.Version, "content", appCfg.ContentDir, "output", appCfg.OutputDir)

	site, err := config.NewLoader(appCfg.ContentDir).Load()
	if err != nil {
		return fmt.Errorf("failed to load site configuration: %w", err)
	}
	site.Apply(config.Overrides{
		Title:       appCfg.SiteTitle,
		BaseURL:     appCfg.BaseUrl,
		Description: appCfg.SiteDescription,
		Author:      appCfg.SiteAuthor,
		MainSection: appCfg.MainSection,
	})
	if err := site.Validate(); err != nil {
		return fmt.Errorf("invalid site configuration: %w", err)
	}

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		return err
	}
	slog.Debug("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	scheduler := tasks.NewScheduler(
		content.NewLoader(appCfg.ContentDir, site.BaseURL),
		database.NewPageRepository(db),
		database.NewFeedRepository(db),
		feed.NewAssembler(plaintext.NewRenderer()),
		feed.NewEncoder(),
		site,
		appCfg.ContentDir,
		appCfg.OutputDir,
		appCfg.WorkerCount,
	)
	scheduler.Start()
	defer scheduler.Stop()

	if err := scheduler.Build(ctx); err != nil {
		if appCfg.WatchInterval == 0 {
			return err
		}
		slog.Error("Build failed", "error", err)
	}

	if appCfg.WatchInterval > 0 {
		interval := time.Duration(appCfg.WatchInterval) * time.Second
		slog.Info("Watching for changes", "interval", interval)
		scheduler.Watch(ctx, interval)
		slog.Info("Watch stopped")
	}

	return nil
}

func runImport(ctx context.Context) error {
	appCfg := cfg.Get()
	client := &http.Client{Timeout: time.Duration(appCfg.Timeout) * time.Second}

	imp := importer.NewImporter(appCfg.ContentDir, client, appCfg.UserAgent)

	_, err := imp.Run(ctx, appCfg.ImportSource, appCfg.ImportSection)
	return err
}
