// Package unique implements C6: a two-tier probabilistic + exact dedup
// filter composing a bloom filter with a hash-set backend.
package unique

import (
	"context"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/iakinsey/aetherscope/internal/hashset"
)

// Config enumerates the Unique Filter's tiers. HashSet may be nil, meaning
// the exact-membership tier is disabled.
type Config struct {
	BloomEnabled       bool
	BloomFPRate        float64
	BloomExpectedItems uint
	HashSet            hashset.Backend
}

// Result reports whether uri should be suppressed from further crawling.
type Result struct {
	URI     string
	WasSeen bool
}

// Filter is the composed two-tier filter.
type Filter struct {
	cfg   Config
	bloom *bloom.BloomFilter
}

// New constructs a Filter per cfg. A bloom filter is allocated only when
// cfg.BloomEnabled is true.
func New(cfg Config) *Filter {
	f := &Filter{cfg: cfg}
	if cfg.BloomEnabled {
		f.bloom = bloom.NewWithEstimates(cfg.BloomExpectedItems, cfg.BloomFPRate)
	}
	return f
}

// Perform classifies each uri per the Unique Filter behaviour table:
//
//	bloom off, hash_set off: permit nothing (WasSeen=true for everything)
//	bloom off, hash_set on:  delegate to the backend
//	bloom on,  hash_set off: bloom membership only, no cross-process consistency
//	bloom on,  hash_set on:  bloom positives short-circuit true; bloom
//	                         negatives are corrected against the backend
func (f *Filter) Perform(ctx context.Context, uris []string) ([]Result, error) {
	if len(uris) == 0 {
		return nil, nil
	}

	if !f.cfg.BloomEnabled && f.cfg.HashSet == nil {
		out := make([]Result, len(uris))
		for i, u := range uris {
			out[i] = Result{URI: u, WasSeen: true}
		}
		return out, nil
	}

	if !f.cfg.BloomEnabled {
		return f.delegateToBackend(ctx, uris)
	}

	if f.cfg.HashSet == nil {
		out := make([]Result, len(uris))
		for i, u := range uris {
			out[i] = Result{URI: u, WasSeen: f.bloom.TestAndAddString(u)}
		}
		return out, nil
	}

	return f.partitionedByBloom(ctx, uris)
}

func (f *Filter) delegateToBackend(ctx context.Context, uris []string) ([]Result, error) {
	entityResults, err := f.cfg.HashSet.ContainsEntities(ctx, uris)
	if err != nil {
		return nil, err
	}
	out := make([]Result, len(entityResults))
	for i, er := range entityResults {
		out[i] = Result{URI: er.Entity, WasSeen: er.ExistedBefore}
	}
	return out, nil
}

func (f *Filter) partitionedByBloom(ctx context.Context, uris []string) ([]Result, error) {
	out := make([]Result, len(uris))
	var negativeIdx []int
	var negativeURIs []string

	for i, u := range uris {
		if f.bloom.TestString(u) {
			out[i] = Result{URI: u, WasSeen: true}
			continue
		}
		f.bloom.AddString(u)
		negativeIdx = append(negativeIdx, i)
		negativeURIs = append(negativeURIs, u)
	}

	if len(negativeURIs) == 0 {
		return out, nil
	}

	entityResults, err := f.cfg.HashSet.ContainsEntities(ctx, negativeURIs)
	if err != nil {
		return nil, err
	}
	for j, er := range entityResults {
		out[negativeIdx[j]] = Result{URI: er.Entity, WasSeen: er.ExistedBefore}
	}
	return out, nil
}
