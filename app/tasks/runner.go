package tasks

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/lysyi3m/rss-estate/app/ingest"
)

// ErrRunInProgress is returned when a trigger fires while a run is active.
var ErrRunInProgress = errors.New("run already in progress")

// Runner allows at most one pipeline run at a time within the process.
type Runner struct {
	pipeline Pipeline
	running  sync.Mutex

	mu      sync.RWMutex
	last    ingest.Summary
	hasLast bool
}

var _ SyncRunner = (*Runner)(nil)

func NewRunner(pipeline Pipeline) *Runner {
	return &Runner{pipeline: pipeline}
}

func (r *Runner) Run(ctx context.Context, trigger Trigger) (ingest.Summary, error) {
	if !r.running.TryLock() {
		slog.Warn("Sync rejected", "trigger", trigger, "reason", ErrRunInProgress)
		return ingest.Summary{}, ErrRunInProgress
	}
	defer r.running.Unlock()

	task := NewTask(TaskTypeSync, trigger)
	task.Start()

	summary := r.pipeline.Run(ctx)

	r.mu.Lock()
	r.last = summary
	r.hasLast = true
	r.mu.Unlock()

	if summary.Success {
		slog.Info("Task completed",
			"type", task.Type,
			"id", task.ID,
			"trigger", trigger,
			"duration", task.GetDuration(),
			"synced", summary.Synced,
			"enriched", summary.Enriched,
			"skipped", summary.Skipped,
			"errors", len(summary.Errors))
	} else {
		slog.Error("Task failed",
			"type", task.Type,
			"id", task.ID,
			"trigger", trigger,
			"duration", task.GetDuration(),
			"error", summary.Error)
	}

	return summary, nil
}

func (r *Runner) LastSummary() (ingest.Summary, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last, r.hasLast
}
