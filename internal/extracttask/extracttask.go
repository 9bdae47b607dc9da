// Package extracttask implements C11: for every HttpResponse metadata entry
// with an object key, stream the stored body through the Extractor FSM and
// append a Uris metadata entry with the sorted, deduplicated result, plus a
// Title metadata entry with the document's <title> text, if any.
package extracttask

import (
	"context"

	"github.com/iakinsey/aetherscope/internal/extractor"
	"github.com/iakinsey/aetherscope/internal/objectstore"
	"github.com/iakinsey/aetherscope/internal/record"
	"github.com/iakinsey/aetherscope/internal/streamreader"
)

// Task runs the Extractor FSM over each fetched body referenced by a
// Record's HttpResponse metadata.
type Task struct {
	Store objectstore.Store
}

// New builds an extracttask.Task reading from store.
func New(store objectstore.Store) *Task {
	return &Task{Store: store}
}

// OnMessage implements task.Task. Non-HTTP metadata, and HttpResponse
// entries with no object key, pass through unchanged.
func (t *Task) OnMessage(ctx context.Context, r record.Record) (record.Record, error) {
	out := r
	for _, m := range r.Metadata {
		hr, ok := m.(record.HttpResponse)
		if !ok || hr.ObjectKey == "" {
			continue
		}

		uris, err := t.extractURIs(ctx, hr.ObjectKey, r.URI)
		if err != nil {
			return out, err
		}
		out = out.WithMetadata(record.Uris{Uris: uris})

		title, err := t.extractTitle(ctx, hr.ObjectKey)
		if err != nil {
			return out, err
		}
		if title != "" {
			out = out.WithMetadata(record.Title{Title: title})
		}
	}
	return out, nil
}

func (t *Task) extractURIs(ctx context.Context, objectKey, origin string) ([]string, error) {
	stream, err := t.Store.GetStream(ctx, objectKey)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	sr, err := streamreader.New(stream)
	if err != nil {
		return nil, err
	}
	return extractor.Run(sr, origin)
}

func (t *Task) extractTitle(ctx context.Context, objectKey string) (string, error) {
	stream, err := t.Store.GetStream(ctx, objectKey)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	sr, err := streamreader.New(stream)
	if err != nil {
		return "", err
	}
	return extractor.ExtractTitle(sr)
}
