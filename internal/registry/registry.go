// Package registry implements the process-wide dependency registry
// described in spec.md §5: a named map of object stores, guarded by a
// single mutex and populated lazily. It is a concession to the upstream
// task runtime's by-name object-store indirection, not an intrinsic design
// choice — callers that can inject dependencies directly should prefer
// that instead.
package registry

import (
	"sync"

	aetherrors "github.com/iakinsey/aetherscope/internal/errors"
	"github.com/iakinsey/aetherscope/internal/objectstore"
)

var (
	mu     sync.RWMutex
	stores = make(map[string]objectstore.Store)
)

// Register installs store under name, overwriting any prior registration.
func Register(name string, store objectstore.Store) {
	mu.Lock()
	defer mu.Unlock()
	stores[name] = store
}

// Lookup returns the object store registered under name, or a
// *errors.MissingDependencyError if none was registered.
func Lookup(name string) (objectstore.Store, error) {
	mu.RLock()
	defer mu.RUnlock()
	s, ok := stores[name]
	if !ok {
		return nil, aetherrors.NewMissingDependencyError(name)
	}
	return s, nil
}

// EnsureRegistered registers store under name only if name is not already
// registered, for lazy, init-once style setup.
func EnsureRegistered(name string, factory func() (objectstore.Store, error)) (objectstore.Store, error) {
	mu.RLock()
	if s, ok := stores[name]; ok {
		mu.RUnlock()
		return s, nil
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if s, ok := stores[name]; ok {
		return s, nil
	}
	s, err := factory()
	if err != nil {
		return nil, err
	}
	stores[name] = s
	return s, nil
}
