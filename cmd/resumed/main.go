package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hirestack/resume-intake/internal/common"
	"github.com/hirestack/resume-intake/internal/export"
	"github.com/hirestack/resume-intake/internal/extract"
	"github.com/hirestack/resume-intake/internal/gender"
	"github.com/hirestack/resume-intake/internal/llm/gemini"
	"github.com/hirestack/resume-intake/internal/location"
	"github.com/hirestack/resume-intake/internal/pipeline"
	"github.com/hirestack/resume-intake/internal/reconcile"
	"github.com/hirestack/resume-intake/internal/repository"
	"github.com/hirestack/resume-intake/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.Any("error", err))
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := repository.Open(ctx, repository.Config{
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, logger)
	if err != nil {
		logger.Error("opening database", slog.Any("error", err))
		os.Exit(1)
	}
	defer repository.Close(pool, logger)

	store := repository.NewCandidateRepository(pool, cfg.Database.Table, logger)

	names, err := gender.LoadNameTable(cfg.Reference.NamesPath)
	if err != nil {
		logger.Error("loading gender name table", slog.Any("error", err))
		os.Exit(1)
	}

	var locations *location.Resolver
	if cfg.Reference.LocationDBPath != "" {
		locStore, err := location.OpenSQLite(ctx, cfg.Reference.LocationDBPath)
		if err != nil {
			logger.Warn("location reference database unavailable, location codes disabled",
				slog.String("path", cfg.Reference.LocationDBPath), slog.Any("error", err))
		} else {
			defer locStore.Close()
			locations = location.NewResolver(locStore, logger)
		}
	}

	processor := pipeline.NewProcessor(pipeline.Options{
		Logger: logger,
		Regex:  extract.NewRegexExtractor("IN", logger),
		Model: gemini.NewClient(gemini.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLM.Timeout,
		}, logger),
		Gender:    gender.NewScorer(names, 2, logger),
		Locations: locations,
		Policy:    reconcile.OmitMissing,
	})

	handler := server.NewHandler(processor, store, export.NewService(store, logger), logger)
	srv := server.New(cfg.Server.HTTPAddr, handler.Routes(), logger)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("stopped")
}
