// Package robots implements C7: per-origin robots.txt fetch, cache, and
// allow/deny classification. The cache shape (TTL'd positive/negative
// entries plus single-flight fetch coalescing per host) follows the
// teacher crawler's own isAllowedByRobots helper, generalized from a single
// global map into an injectable, per-Filter instance.
package robots

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"

	"github.com/iakinsey/aetherscope/internal/config"
	"github.com/iakinsey/aetherscope/internal/urlutil"
)

const (
	positiveCacheTTL = 30 * time.Minute
	negativeCacheTTL = 10 * time.Minute
)

// Result reports whether uri is allowed to be fetched.
type Result struct {
	URI     string
	Allowed bool
}

type cacheEntry struct {
	group     *robotstxt.Group
	fetchedAt time.Time
	failed    bool
}

// Filter fetches and caches robots.txt per (scheme, host, port) bucket,
// classifying candidate URIs against it for a configured user-agent.
type Filter struct {
	httpClient *http.Client
	userAgent  string

	mu       sync.Mutex
	cache    map[urlutil.Bucket]*cacheEntry
	inflight map[urlutil.Bucket]chan struct{}
}

// New builds a Filter from cfg.
func New(cfg config.RobotsConfig) *Filter {
	cfg = cfg.WithDefaults()
	return &Filter{
		httpClient: &http.Client{Timeout: cfg.HTTPConfig.Timeout()},
		userAgent:  cfg.HTTPConfig.UserAgent,
		cache:      make(map[urlutil.Bucket]*cacheEntry),
		inflight:   make(map[urlutil.Bucket]chan struct{}),
	}
}

// Perform buckets uris by (scheme, host, port), fetches robots.txt once per
// bucket, and classifies each uri's path as allowed or denied. A robots
// fetch failure (non-2xx or network error) is treated as permissive: this
// is the spec's deliberate, risky availability-over-safety choice.
func (f *Filter) Perform(ctx context.Context, uris []string) ([]Result, error) {
	out := make([]Result, len(uris))
	for i, raw := range uris {
		u, err := url.Parse(raw)
		if err != nil {
			out[i] = Result{URI: raw, Allowed: false}
			continue
		}
		group, permissive := f.groupFor(ctx, u)
		allowed := permissive || group == nil || group.Test(u.Path)
		out[i] = Result{URI: raw, Allowed: allowed}
	}
	return out, nil
}

// groupFor returns the cached or freshly fetched robots group for u's
// bucket. permissive is true when the fetch failed and the caller should
// allow regardless of group.
func (f *Filter) groupFor(ctx context.Context, u *url.URL) (group *robotstxt.Group, permissive bool) {
	bucket := urlutil.BucketOf(u)

	f.mu.Lock()
	if entry, ok := f.cache[bucket]; ok {
		age := time.Since(entry.fetchedAt)
		if !entry.failed && age < positiveCacheTTL {
			f.mu.Unlock()
			return entry.group, false
		}
		if entry.failed && age < negativeCacheTTL {
			f.mu.Unlock()
			return nil, true
		}
	}

	if ch, fetching := f.inflight[bucket]; fetching {
		f.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, true
		}
		f.mu.Lock()
		entry, ok := f.cache[bucket]
		f.mu.Unlock()
		if ok && !entry.failed {
			return entry.group, false
		}
		return nil, true
	}

	ch := make(chan struct{})
	f.inflight[bucket] = ch
	f.mu.Unlock()

	entry := f.fetch(ctx, u, bucket)

	f.mu.Lock()
	f.cache[bucket] = entry
	delete(f.inflight, bucket)
	f.mu.Unlock()
	close(ch)

	if entry.failed {
		return nil, true
	}
	return entry.group, false
}

func (f *Filter) fetch(ctx context.Context, u *url.URL, bucket urlutil.Bucket) *cacheEntry {
	robotsURL := urlutil.RobotsURL(u)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return &cacheEntry{fetchedAt: time.Now(), failed: true}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return &cacheEntry{fetchedAt: time.Now(), failed: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &cacheEntry{fetchedAt: time.Now(), failed: true}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &cacheEntry{fetchedAt: time.Now(), failed: true}
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		return &cacheEntry{fetchedAt: time.Now(), failed: true}
	}

	group := data.FindGroup(f.userAgent)
	if group == nil {
		group = data.FindGroup("*")
	}
	return &cacheEntry{group: group, fetchedAt: time.Now(), failed: false}
}
