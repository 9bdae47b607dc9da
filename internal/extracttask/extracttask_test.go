package extracttask

import (
	"context"
	"testing"

	"github.com/iakinsey/aetherscope/internal/objectstore"
	"github.com/iakinsey/aetherscope/internal/record"
)

func TestTask_OnMessage_AppendsUrisAndTitle(t *testing.T) {
	store, err := objectstore.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	ctx := context.Background()

	body := `<html><head><title>Example Page</title></head><body><a href="/child">child</a></body></html>`
	if err := store.Put(ctx, "obj-1", []byte(body)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	r, err := record.New("https://example.com/", "t1")
	if err != nil {
		t.Fatalf("record.New: %v", err)
	}
	r = r.WithMetadata(record.HttpResponse{ObjectKey: "obj-1"})

	task := New(store)
	out, err := task.OnMessage(ctx, r)
	if err != nil {
		t.Fatalf("OnMessage: %v", err)
	}

	var gotURIs []string
	var gotTitle string
	for _, m := range out.Metadata {
		switch v := m.(type) {
		case record.Uris:
			gotURIs = v.Uris
		case record.Title:
			gotTitle = v.Title
		}
	}

	if gotTitle != "Example Page" {
		t.Errorf("Title = %q, want %q", gotTitle, "Example Page")
	}
	if len(gotURIs) != 1 || gotURIs[0] != "https://example.com/child" {
		t.Errorf("Uris = %v, want [https://example.com/child]", gotURIs)
	}
}

func TestTask_OnMessage_NoObjectKeyPassesThrough(t *testing.T) {
	store, err := objectstore.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}

	r, err := record.New("https://example.com/", "t1")
	if err != nil {
		t.Fatalf("record.New: %v", err)
	}
	r = r.WithMetadata(record.HttpResponse{Error: "connection refused"})

	task := New(store)
	out, err := task.OnMessage(context.Background(), r)
	if err != nil {
		t.Fatalf("OnMessage: %v", err)
	}
	if len(out.Metadata) != 1 {
		t.Fatalf("expected metadata to pass through unchanged, got %d entries", len(out.Metadata))
	}
}

func TestTask_OnMessage_NoTitlePresent(t *testing.T) {
	store, err := objectstore.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	ctx := context.Background()
	if err := store.Put(ctx, "obj-2", []byte(`<html><body>no title</body></html>`)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	r, err := record.New("https://example.com/", "t1")
	if err != nil {
		t.Fatalf("record.New: %v", err)
	}
	r = r.WithMetadata(record.HttpResponse{ObjectKey: "obj-2"})

	task := New(store)
	out, err := task.OnMessage(ctx, r)
	if err != nil {
		t.Fatalf("OnMessage: %v", err)
	}
	for _, m := range out.Metadata {
		if _, ok := m.(record.Title); ok {
			t.Fatal("expected no Title metadata when the document has no <title>")
		}
	}
}
