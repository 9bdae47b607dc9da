package registry

import (
	"errors"
	"testing"

	aetherrors "github.com/iakinsey/aetherscope/internal/errors"
	"github.com/iakinsey/aetherscope/internal/objectstore"
)

func TestLookup_MissingReturnsMissingDependencyError(t *testing.T) {
	_, err := Lookup("does-not-exist")
	if err == nil {
		t.Fatal("expected an error for an unregistered name")
	}
	var mde *aetherrors.MissingDependencyError
	if !errors.As(err, &mde) {
		t.Fatalf("Lookup error = %v, want *MissingDependencyError", err)
	}
}

func TestRegisterThenLookup(t *testing.T) {
	store, err := objectstore.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	Register("test-store", store)

	got, err := Lookup("test-store")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got != store {
		t.Fatal("Lookup returned a different store than was registered")
	}
}

func TestEnsureRegistered_FactoryRunsOnce(t *testing.T) {
	var calls int
	factory := func() (objectstore.Store, error) {
		calls++
		return objectstore.NewFSStore(t.TempDir())
	}

	s1, err := EnsureRegistered("lazy-store", factory)
	if err != nil {
		t.Fatalf("EnsureRegistered: %v", err)
	}
	s2, err := EnsureRegistered("lazy-store", factory)
	if err != nil {
		t.Fatalf("EnsureRegistered: %v", err)
	}
	if s1 != s2 {
		t.Fatal("expected the same store instance across repeated EnsureRegistered calls")
	}
	if calls != 1 {
		t.Fatalf("factory called %d times, want 1", calls)
	}
}

func TestEnsureRegistered_FactoryErrorNotCached(t *testing.T) {
	boom := errors.New("boom")
	_, err := EnsureRegistered("failing-store", func() (objectstore.Store, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("EnsureRegistered error = %v, want %v", err, boom)
	}

	if _, err := Lookup("failing-store"); err == nil {
		t.Fatal("expected lookup of a failed-factory name to still miss")
	}
}
