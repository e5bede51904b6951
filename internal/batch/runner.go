package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/hirestack/resume-intake/constants"
	"github.com/hirestack/resume-intake/internal/pipeline"
	"github.com/hirestack/resume-intake/internal/reconcile"
	"github.com/hirestack/resume-intake/internal/repository"
)

const logTimeLayout = "2006-01-02 15:04:05"

// Stats summarizes one batch run.
type Stats struct {
	Total     int
	Processed int
	Errors    int
}

// Runner drains a directory of resumes through the processor, persisting
// each record and quarantining failures. Files are handled one at a time so
// a single bad document never takes down the run.
type Runner struct {
	logger        *slog.Logger
	processor     *pipeline.Processor
	store         repository.CandidateStore
	inputDir      string
	quarantineDir string
	logPath       string
	now           func() time.Time
}

type RunnerOptions struct {
	Logger        *slog.Logger
	Processor     *pipeline.Processor
	Store         repository.CandidateStore // nil disables persistence
	InputDir      string
	QuarantineDir string
	LogPath       string
	Now           func() time.Time
}

func NewRunner(opts RunnerOptions) *Runner {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{
		logger:        opts.Logger,
		processor:     opts.Processor,
		store:         opts.Store,
		inputDir:      opts.InputDir,
		quarantineDir: opts.QuarantineDir,
		logPath:       opts.LogPath,
		now:           opts.Now,
	}
}

// Run processes every supported file currently in the input directory, in
// name order, and returns the run totals.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	entries, err := os.ReadDir(r.inputDir)
	if err != nil {
		return Stats{}, fmt.Errorf("reading input directory: %w", err)
	}

	columns, err := r.destinationColumns(ctx)
	if err != nil {
		return Stats{}, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if constants.MapExtToFormat(filepath.Ext(e.Name())) == "" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	stats := Stats{Total: len(names)}
	for _, name := range names {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}
		if err := r.ProcessFile(ctx, filepath.Join(r.inputDir, name), columns); err != nil {
			stats.Errors++
		} else {
			stats.Processed++
		}
	}

	summary := fmt.Sprintf("%s | SUMMARY | total=%d processed=%d errors=%d",
		r.now().Format(logTimeLayout), stats.Total, stats.Processed, stats.Errors)
	r.appendLog(summary)
	r.logger.Info("batch run complete",
		slog.Int("total", stats.Total),
		slog.Int("processed", stats.Processed),
		slog.Int("errors", stats.Errors))
	return stats, nil
}

// ProcessFile runs one file through the pipeline and persists the result.
// On failure the file is moved to quarantine and the error is logged and
// returned; the caller decides whether to keep going.
func (r *Runner) ProcessFile(ctx context.Context, path string, columns map[string]struct{}) error {
	name := filepath.Base(path)

	if err := r.processOne(ctx, path, columns); err != nil {
		r.logger.Error("file processing failed", slog.String("file", name), slog.Any("error", err))
		r.appendLog(fmt.Sprintf("%s | %s | ERROR: %v", r.now().Format(logTimeLayout), name, err))
		r.quarantine(path)
		return err
	}

	r.appendLog(fmt.Sprintf("%s | %s | PROCESSED", r.now().Format(logTimeLayout), name))
	if err := os.Remove(path); err != nil {
		r.logger.Warn("could not remove processed file", slog.String("file", name), slog.Any("error", err))
	}
	return nil
}

// DestinationColumns resolves the column set batch records are filtered to.
func (r *Runner) destinationColumns(ctx context.Context) (map[string]struct{}, error) {
	if r.store == nil {
		cols := make(map[string]struct{}, len(constants.CandidateColumns))
		for _, c := range constants.CandidateColumns {
			cols[c] = struct{}{}
		}
		return cols, nil
	}
	return r.store.Columns(ctx)
}

func (r *Runner) processOne(ctx context.Context, path string, columns map[string]struct{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	rec, err := r.processor.Process(ctx, pipeline.Document{
		Data:     data,
		Filename: filepath.Base(path),
	})
	if err != nil {
		return err
	}

	filtered, err := rec.FilterToSchema(columns, reconcile.SentinelMissing)
	if err != nil {
		return err
	}
	if r.store == nil {
		return nil
	}
	return r.store.Insert(ctx, filtered.Fields())
}

func (r *Runner) quarantine(path string) {
	if r.quarantineDir == "" {
		return
	}
	if err := os.MkdirAll(r.quarantineDir, 0o755); err != nil {
		r.logger.Warn("could not create quarantine directory", slog.Any("error", err))
		return
	}
	dest := filepath.Join(r.quarantineDir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		r.logger.Warn("could not quarantine file", slog.String("file", path), slog.Any("error", err))
	}
}

func (r *Runner) appendLog(line string) {
	if r.logPath == "" {
		return
	}
	f, err := os.OpenFile(r.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		r.logger.Warn("could not open batch log", slog.Any("error", err))
		return
	}
	defer f.Close()
	if _, err := f.WriteString(line + "\n"); err != nil {
		r.logger.Warn("could not write batch log", slog.Any("error", err))
	}
}
