package hashset

import (
	"context"
	"path/filepath"
	"testing"
)

func TestSQLiteBackend_ContainsEntities_ZeroLengthBatch(t *testing.T) {
	b, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "seen.db"))
	if err != nil {
		t.Fatalf("NewSQLiteBackend: %v", err)
	}
	defer b.Close()

	got, err := b.ContainsEntities(context.Background(), nil)
	if err != nil {
		t.Fatalf("ContainsEntities(nil): %v", err)
	}
	if got != nil {
		t.Fatalf("ContainsEntities(nil) = %v, want nil", got)
	}
}

func TestSQLiteBackend_FirstSeenThenRepeat(t *testing.T) {
	b, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "seen.db"))
	if err != nil {
		t.Fatalf("NewSQLiteBackend: %v", err)
	}
	defer b.Close()
	ctx := context.Background()

	first, err := b.ContainsEntities(ctx, []string{"a", "b"})
	if err != nil {
		t.Fatalf("ContainsEntities first pass: %v", err)
	}
	for _, r := range first {
		if r.ExistedBefore {
			t.Errorf("entity %q reported as existing on first observation", r.Entity)
		}
	}

	second, err := b.ContainsEntities(ctx, []string{"a", "c"})
	if err != nil {
		t.Fatalf("ContainsEntities second pass: %v", err)
	}
	if !second[0].ExistedBefore {
		t.Error("entity \"a\" should report ExistedBefore=true on the second pass")
	}
	if second[1].ExistedBefore {
		t.Error("entity \"c\" should report ExistedBefore=false, it is novel")
	}
}

func TestSQLiteBackend_BatchSemantics(t *testing.T) {
	b, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "seen.db"))
	if err != nil {
		t.Fatalf("NewSQLiteBackend: %v", err)
	}
	defer b.Close()

	// Duplicate entities within the same batch: the pre-select snapshot is
	// taken before any insert, so both instances report ExistedBefore=false.
	got, err := b.ContainsEntities(context.Background(), []string{"dup", "dup"})
	if err != nil {
		t.Fatalf("ContainsEntities: %v", err)
	}
	for i, r := range got {
		if r.ExistedBefore {
			t.Errorf("result[%d] for duplicate-in-batch entity reported ExistedBefore=true", i)
		}
	}
}
