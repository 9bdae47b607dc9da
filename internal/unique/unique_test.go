package unique

import (
	"context"
	"testing"

	"github.com/iakinsey/aetherscope/internal/hashset"
)

// fakeBackend is an in-memory hashset.Backend for exercising the Filter's
// tier-composition logic without a real store.
type fakeBackend struct {
	seen  map[string]bool
	calls int
}

func newFakeBackend(preseeded ...string) *fakeBackend {
	b := &fakeBackend{seen: make(map[string]bool)}
	for _, s := range preseeded {
		b.seen[s] = true
	}
	return b
}

func (b *fakeBackend) ContainsEntities(ctx context.Context, entities []string) ([]hashset.EntityResult, error) {
	b.calls++
	out := make([]hashset.EntityResult, len(entities))
	for i, e := range entities {
		out[i] = hashset.EntityResult{Entity: e, ExistedBefore: b.seen[e]}
		b.seen[e] = true
	}
	return out, nil
}

func TestFilter_EmptyInput(t *testing.T) {
	f := New(Config{})
	got, err := f.Perform(context.Background(), nil)
	if err != nil {
		t.Fatalf("Perform: %v", err)
	}
	if got != nil {
		t.Fatalf("Perform(nil) = %v, want nil", got)
	}
}

func TestFilter_NoTiers_PermitsNothing(t *testing.T) {
	f := New(Config{})
	got, err := f.Perform(context.Background(), []string{"https://a.test/", "https://b.test/"})
	if err != nil {
		t.Fatalf("Perform: %v", err)
	}
	for _, r := range got {
		if !r.WasSeen {
			t.Fatalf("expected WasSeen=true with no tiers enabled, got %+v", r)
		}
	}
}

func TestFilter_HashSetOnly_Delegates(t *testing.T) {
	backend := newFakeBackend("https://seen.test/")
	f := New(Config{HashSet: backend})

	got, err := f.Perform(context.Background(), []string{"https://seen.test/", "https://new.test/"})
	if err != nil {
		t.Fatalf("Perform: %v", err)
	}
	if !got[0].WasSeen {
		t.Error("expected pre-seeded url to be WasSeen=true")
	}
	if got[1].WasSeen {
		t.Error("expected novel url to be WasSeen=false")
	}
}

func TestFilter_BloomOnly_NoBackend(t *testing.T) {
	f := New(Config{BloomEnabled: true, BloomFPRate: 0.001, BloomExpectedItems: 1000})

	first, err := f.Perform(context.Background(), []string{"https://x.test/"})
	if err != nil {
		t.Fatalf("Perform: %v", err)
	}
	if first[0].WasSeen {
		t.Fatal("first observation should not be WasSeen")
	}

	second, err := f.Perform(context.Background(), []string{"https://x.test/"})
	if err != nil {
		t.Fatalf("Perform: %v", err)
	}
	if !second[0].WasSeen {
		t.Fatal("second observation of the same url should be WasSeen")
	}
}

func TestFilter_TwoTier_NegativesCorrectedAgainstBackend(t *testing.T) {
	backend := newFakeBackend("https://already-in-backend.test/")
	f := New(Config{BloomEnabled: true, BloomFPRate: 0.001, BloomExpectedItems: 1000, HashSet: backend})

	uris := []string{"https://already-in-backend.test/", "https://fresh.test/"}
	got, err := f.Perform(context.Background(), uris)
	if err != nil {
		t.Fatalf("Perform: %v", err)
	}
	if !got[0].WasSeen {
		t.Error("backend-known url should be WasSeen=true even on a bloom negative")
	}
	if got[1].WasSeen {
		t.Error("fully novel url should be WasSeen=false")
	}
	if backend.calls != 1 {
		t.Fatalf("expected exactly 1 backend call for the bloom-negative partition, got %d", backend.calls)
	}

	// Repeating the same batch: bloom now has both, so no backend call at all.
	backend.calls = 0
	got2, err := f.Perform(context.Background(), uris)
	if err != nil {
		t.Fatalf("Perform: %v", err)
	}
	for _, r := range got2 {
		if !r.WasSeen {
			t.Errorf("expected WasSeen=true on second pass for %s", r.URI)
		}
	}
	if backend.calls != 0 {
		t.Fatalf("expected bloom positives to short-circuit the backend, got %d calls", backend.calls)
	}
}
