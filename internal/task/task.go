// Package task defines the single external seam between the crawl pipeline
// and the upstream task-graph runtime: a pure function from Record to
// Record. The runtime owns retry, routing, and cancellation; task
// implementations never block the caller on transport failures — those are
// always encoded into the returned Record's metadata instead.
package task

import (
	"context"

	"github.com/iakinsey/aetherscope/internal/record"
)

// Task is implemented by the HTTP fetcher, headless fetcher, and URL
// extractor task.
type Task interface {
	OnMessage(ctx context.Context, r record.Record) (record.Record, error)
}
