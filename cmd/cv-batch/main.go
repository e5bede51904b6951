package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hirestack/resume-intake/constants"
	"github.com/hirestack/resume-intake/internal/batch"
	"github.com/hirestack/resume-intake/internal/common"
	"github.com/hirestack/resume-intake/internal/extract"
	"github.com/hirestack/resume-intake/internal/gender"
	"github.com/hirestack/resume-intake/internal/llm"
	"github.com/hirestack/resume-intake/internal/llm/gemini"
	"github.com/hirestack/resume-intake/internal/location"
	"github.com/hirestack/resume-intake/internal/pipeline"
	"github.com/hirestack/resume-intake/internal/reconcile"
	"github.com/hirestack/resume-intake/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir     = flag.String("dir", "", "directory to process resumes from (overrides INPUT_DIR)")
		watch   = flag.Bool("watch", false, "keep watching the directory for new resumes")
		dryRun  = flag.Bool("dry-run", false, "process without writing to the database")
		noModel = flag.Bool("no-model", false, "skip the model extractor, deterministic fields only")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *dir != "" {
		cfg.Batch.InputDir = *dir
	}
	if cfg.Batch.InputDir == "" {
		printError("Error: --dir or INPUT_DIR is required\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store repository.CandidateStore
	if !*dryRun {
		if cfg.Database.DSN == "" {
			printError("Error: DB_URL is required unless --dry-run is set\n")
			os.Exit(1)
		}
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
		store = repository.NewCandidateRepository(pool, cfg.Database.Table, logger)
	}

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

	var model llm.FieldExtractor
	if !*noModel && cfg.LLM.APIKey != "" {
		model = gemini.NewClient(gemini.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLM.Timeout,
		}, logger)
	} else {
		logger.Warn("model extractor disabled, using deterministic extraction only")
	}

	processor := pipeline.NewProcessor(pipeline.Options{
		Logger:    logger,
		Regex:     extract.NewRegexExtractor("IN", logger),
		Model:     model,
		Gender:    gender.NewScorer(names, 3, logger),
		Locations: locations,
		Policy:    reconcile.SentinelMissing,
	})

	runner := batch.NewRunner(batch.RunnerOptions{
		Logger:        logger,
		Processor:     processor,
		Store:         store,
		InputDir:      cfg.Batch.InputDir,
		QuarantineDir: cfg.Batch.QuarantineDir,
		LogPath:       cfg.Batch.LogPath,
	})

	stats, err := runner.Run(ctx)
	if err != nil {
		logger.Error("batch run failed", slog.Any("error", err))
		os.Exit(1)
	}
	fmt.Printf("total=%d processed=%d errors=%d\n", stats.Total, stats.Processed, stats.Errors)

	if !*watch {
		if stats.Errors > 0 {
			os.Exit(1)
		}
		return
	}

	columns, err := runnerColumns(ctx, store)
	if err != nil {
		logger.Error("resolving destination columns", slog.Any("error", err))
		os.Exit(1)
	}
	events, errs, err := batch.StartWatcher(ctx, batch.WatchConfig{
		Root:     cfg.Batch.InputDir,
		Debounce: 500 * time.Millisecond,
	}, logger)
	if err != nil {
		logger.Error("starting watcher", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("watching for new resumes", slog.String("dir", cfg.Batch.InputDir))

	for {
		select {
		case <-ctx.Done():
			logger.Info("stopped")
			return
		case path, ok := <-events:
			if !ok {
				return
			}
			_ = runner.ProcessFile(ctx, path, columns)
		case err, ok := <-errs:
			if ok && err != nil {
				logger.Error("watcher error", slog.Any("error", err))
			}
		}
	}
}

func runnerColumns(ctx context.Context, store repository.CandidateStore) (map[string]struct{}, error) {
	if store == nil {
		cols := make(map[string]struct{}, len(constants.CandidateColumns))
		for _, c := range constants.CandidateColumns {
			cols[c] = struct{}{}
		}
		return cols, nil
	}
	return store.Columns(ctx)
}
