// Package hashset implements C5: exact membership over SQL and KV backing
// stores, with an atomic check-and-insert contract.
package hashset

import "context"

// EntityResult reports whether entity was present before this call.
type EntityResult struct {
	Entity        string
	ExistedBefore bool
}

// Backend is the atomic check-and-insert contract: for each input entity it
// reports whether it was already present, inserting any missing entities as
// a side effect.
type Backend interface {
	ContainsEntities(ctx context.Context, entities []string) ([]EntityResult, error)
}
