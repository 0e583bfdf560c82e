// Package pipeline drives one download-and-organize run from prepared
// directories through the optional archive step.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/vmunix/fetcharr/internal/fetch"
	"github.com/vmunix/fetcharr/internal/report"
	"github.com/vmunix/fetcharr/internal/workspace"
	"github.com/vmunix/fetcharr/pkg/asset"
)

//go:generate mockgen -source=pipeline.go -destination=mocks/mock_pipeline.go -package=mocks

// Downloader fetches one asset into a destination directory.
type Downloader interface {
	Fetch(ctx context.Context, ref asset.Ref, destDir string) fetch.Outcome
}

// Archiver bundles the category directories into a single archive.
type Archiver interface {
	Create(root string, dirs []string) (string, error)
}

// Recorder persists run history. Recording failures are logged, never
// fatal to the run.
type Recorder interface {
	Begin(startedAt time.Time) (int64, error)
	RecordOutcome(runID int64, o fetch.Outcome) error
	Finish(runID int64, summary report.Summary, archivePath string, finishedAt time.Time) error
}

// Config holds the pipeline's tunables.
type Config struct {
	// Delay is slept after every fetch attempt, success or failure, as
	// a blanket politeness throttle toward the remote host.
	Delay time.Duration

	// Confirm gates the archive step. It is consulted once, after all
	// downloads are accounted for, with the finished summary so callers
	// can present it before asking. nil means never archive.
	Confirm func(report.Summary) bool
}

// Result is the terminal state of one run.
type Result struct {
	Summary     report.Summary
	ArchivePath string // empty when no archive was made
	ArchiveErr  error  // archive failure; the summary remains valid
}

// Pipeline executes runs sequentially: one request in flight, one file
// written at a time. All shared state is owned by the single goroutine
// calling Run.
type Pipeline struct {
	workspace  *workspace.Manager
	downloader Downloader
	archiver   Archiver
	recorder   Recorder
	config     Config
	logger     *slog.Logger
	sleep      func(time.Duration)
}

// New creates a pipeline. recorder may be nil to skip history.
func New(ws *workspace.Manager, dl Downloader, ar Archiver, rec Recorder, cfg Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		workspace:  ws,
		downloader: dl,
		archiver:   ar,
		recorder:   rec,
		config:     cfg,
		logger:     logger,
		sleep:      time.Sleep,
	}
}

// Run prepares the workspace, fetches every ref in order, and produces
// the run summary, optionally archiving afterward. Only workspace
// preparation can fail; per-item fetch errors are isolated into the
// summary's failure list and an archive failure is reported on the
// Result without invalidating it.
func (p *Pipeline) Run(ctx context.Context, refs []asset.Ref) (*Result, error) {
	// Fail fast before any network activity: stale or half-prepared
	// directories would corrupt the accounting.
	if err := p.workspace.Prepare(asset.Categories); err != nil {
		return nil, err
	}

	started := time.Now()
	var runID int64
	if p.recorder != nil {
		id, err := p.recorder.Begin(started)
		if err != nil {
			p.logger.Warn("history: begin run failed", "error", err)
		} else {
			runID = id
		}
	}

	p.logger.Info("starting downloads", "count", len(refs))
	agg := report.NewAggregator()
	for i, ref := range refs {
		p.logger.Info("processing", "index", i+1, "total", len(refs), "url", ref.URL)

		out := p.downloader.Fetch(ctx, ref, p.workspace.Dir(ref.Category))
		agg.Record(out)
		if p.recorder != nil && runID != 0 {
			if err := p.recorder.RecordOutcome(runID, out); err != nil {
				p.logger.Warn("history: record outcome failed", "error", err)
			}
		}

		if p.config.Delay > 0 {
			p.sleep(p.config.Delay)
		}
	}

	result := &Result{Summary: agg.Summary()}

	if p.config.Confirm != nil && p.config.Confirm(result.Summary) {
		path, err := p.archiver.Create(p.workspace.Root(), categoryDirs())
		if err != nil {
			p.logger.Error("archive failed, directories left intact", "error", err)
			result.ArchiveErr = err
		} else {
			result.ArchivePath = path
		}
	}

	if p.recorder != nil && runID != 0 {
		if err := p.recorder.Finish(runID, result.Summary, result.ArchivePath, time.Now()); err != nil {
			p.logger.Warn("history: finish run failed", "error", err)
		}
	}

	return result, nil
}

func categoryDirs() []string {
	dirs := make([]string, 0, len(asset.Categories))
	for _, c := range asset.Categories {
		dirs = append(dirs, c.Dir())
	}
	return dirs
}
