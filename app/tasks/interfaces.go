package tasks

import (
	"context"

	"github.com/lysyi3m/rss-estate/app/ingest"
)

// Pipeline is one full sync pass.
type Pipeline interface {
	Run(ctx context.Context) ingest.Summary
}

// SyncRunner serializes sync runs for every trigger.
type SyncRunner interface {
	Run(ctx context.Context, trigger Trigger) (ingest.Summary, error)
	LastSummary() (ingest.Summary, bool)
}

type SchedulerInterface interface {
	Start()
	Stop()
}
