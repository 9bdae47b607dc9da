package record

import "testing"

func TestNew_RequiresAbsoluteURL(t *testing.T) {
	if _, err := New("/relative/path", "task-1"); err == nil {
		t.Fatal("expected error for non-absolute uri")
	}
	if _, err := New("https://example.com/", "task-1"); err != nil {
		t.Fatalf("New with absolute uri: %v", err)
	}
	if _, err := New("://bad", "task-1"); err == nil {
		t.Fatal("expected error for unparseable uri")
	}
}

func TestWithMetadata_DoesNotMutateReceiver(t *testing.T) {
	r, err := New("https://example.com/", "t1")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	r2 := r.WithMetadata(Title{Title: "first"})
	if len(r.Metadata) != 0 {
		t.Fatalf("original record mutated: %v", r.Metadata)
	}
	if len(r2.Metadata) != 1 {
		t.Fatalf("expected r2 to carry one metadata entry, got %d", len(r2.Metadata))
	}

	r3 := r2.WithMetadata(Title{Title: "second"})
	if len(r2.Metadata) != 1 {
		t.Fatalf("r2 mutated by deriving r3: %v", r2.Metadata)
	}
	if len(r3.Metadata) != 2 {
		t.Fatalf("expected r3 to carry two metadata entries, got %d", len(r3.Metadata))
	}
}

func TestLatestHttpResponse(t *testing.T) {
	r, err := New("https://example.com/", "t1")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, ok := r.LatestHttpResponse(); ok {
		t.Fatal("expected no HttpResponse on a fresh record")
	}

	first := 200
	second := 404
	r = r.WithMetadata(HttpResponse{Status: &first})
	r = r.WithMetadata(Uris{Uris: []string{"https://example.com/a"}})
	r = r.WithMetadata(HttpResponse{Status: &second})

	latest, ok := r.LatestHttpResponse()
	if !ok {
		t.Fatal("expected a latest HttpResponse")
	}
	if latest.Status == nil || *latest.Status != second {
		t.Fatalf("LatestHttpResponse = %+v, want status %d", latest, second)
	}

	all := r.HttpResponses()
	if len(all) != 2 {
		t.Fatalf("HttpResponses() returned %d entries, want 2", len(all))
	}
	if all[0].Status == nil || *all[0].Status != first {
		t.Fatalf("HttpResponses()[0] = %+v, want status %d", all[0], first)
	}
}
