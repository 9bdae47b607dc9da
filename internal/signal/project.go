package signal

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/axiomhq/hyperloglog"

	aetherrors "github.com/iakinsey/aetherscope/internal/errors"
	"github.com/iakinsey/aetherscope/internal/record"
	"github.com/iakinsey/aetherscope/internal/urlutil"
)

const hostStripeCount = 8

// ProjectURLState implements the url_state projection policy from spec.md
// §4.11: require exactly one HttpResponse, derive its url key from the
// record's URI, and take timestamps/status/etag/last-modified straight from
// the response. Content fingerprint and the change/soft-404/thinness EMAs
// require inspecting the fetched body; that analysis is delegated to a
// collaborator outside this core (see DESIGN.md) and is left at its zero
// value here.
func ProjectURLState(r record.Record) ([]Signal, error) {
	responses := r.HttpResponses()
	if len(responses) != 1 {
		return nil, aetherrors.NewGenericError("url_state projection requires exactly one HttpResponse")
	}
	resp := responses[0]

	now := time.Now()
	state := URLState{
		URLKey:       urlutil.URLKey(r.URI).Bytes(),
		Etag:         headerValue(resp.ResponseHeaders, "Etag"),
		LastModified: headerValue(resp.ResponseHeaders, "Last-Modified"),
		UpdatedTS:    now,
	}
	if resp.Status != nil {
		state.LastStatus = *resp.Status
	}
	if resp.ResponseTimestamp != nil {
		state.LastFetchTS = *resp.ResponseTimestamp
	} else {
		state.LastFetchTS = resp.Request.RequestTimestamp
	}

	return []Signal{state}, nil
}

// ProjectURLDepth derives a url_depth row. Depth-from-seed is not carried on
// Record (depth bookkeeping belongs to the frontier runtime, an external
// collaborator per spec.md §1), so it is supplied by the caller rather than
// discovered from metadata.
func ProjectURLDepth(r record.Record, depth int, discoveredAt time.Time) (Signal, error) {
	return URLDepth{
		URLKey:       urlutil.URLKey(r.URI).Bytes(),
		Depth:        depth,
		DiscoveredTS: discoveredAt,
		UpdatedTS:    time.Now(),
	}, nil
}

// ProjectHostGate derives the identity half of a host_gate row (its key) for
// a record's host. The gate's schedule fields (next_allowed_ts,
// lease_until_ts, lease_owner) are owned by the politeness scheduler, which
// spec.md §1 places out of scope for this core; callers that run a
// scheduler populate those fields themselves before upserting.
func ProjectHostGate(r record.Record) (Signal, error) {
	u, err := url.Parse(r.URI)
	if err != nil {
		return nil, aetherrors.NewUrlParseError(r.URI, err)
	}
	return HostGate{
		HostKey:   urlutil.HostKey(u).Bytes(),
		UpdatedTS: time.Now(),
	}, nil
}

// ProjectHostStatsStripe emits a single-observation host_stats_stripe row
// from a record's (sole) HttpResponse. Because the row is derived from one
// record with no access to prior state, it carries this fetch's own latency
// and status-class counts rather than a true running EMA; combining
// observations across fetches into an EMA is the store layer's concern
// (readers already merge stripes per spec.md §3).
func ProjectHostStatsStripe(r record.Record) ([]Signal, error) {
	responses := r.HttpResponses()
	if len(responses) != 1 {
		return nil, aetherrors.NewGenericError("host_stats_stripe projection requires exactly one HttpResponse")
	}
	resp := responses[0]

	u, err := url.Parse(r.URI)
	if err != nil {
		return nil, aetherrors.NewUrlParseError(r.URI, err)
	}

	hostKey := urlutil.HostKey(u)
	stripe := int(hostKey[len(hostKey)-1]) % hostStripeCount

	row := HostStatsStripe{
		HostKey:   hostKey.Bytes(),
		Stripe:    stripe,
		UpdatedTS: time.Now(),
	}

	if resp.ResponseTimestamp != nil {
		row.EMALatency = resp.ResponseTimestamp.Sub(resp.Request.RequestTimestamp).Seconds()
	}
	if n, err := strconv.ParseFloat(headerValue(resp.ResponseHeaders, "Content-Length"), 64); err == nil {
		row.EMABytes = n
	}
	if resp.Error != "" {
		row.CountTimeout = 1
	} else if resp.Status != nil {
		switch {
		case *resp.Status == 429:
			row.Count429 = 1
		case *resp.Status >= 200 && *resp.Status < 300:
			row.Count2xx = 1
		case *resp.Status >= 300 && *resp.Status < 400:
			row.Count3xx = 1
			row.EMARedirects = 1
		case *resp.Status >= 400 && *resp.Status < 500:
			row.Count4xx = 1
		case *resp.Status >= 500:
			row.Count5xx = 1
		}
	}

	return []Signal{row}, nil
}

// ProjectPrefixStats derives a host_key/prefix_key pair from a record's URI
// path, using the first path segment as the URL template. dup-rate,
// novelty, near-dup, and variance are cross-record comparisons this
// single-record projection cannot compute; they are left at zero for the
// store layer to accumulate, as with ProjectHostStatsStripe.
func ProjectPrefixStats(r record.Record) ([]Signal, error) {
	u, err := url.Parse(r.URI)
	if err != nil {
		return nil, aetherrors.NewUrlParseError(r.URI, err)
	}
	prefix := firstPathSegment(u.Path)

	return []Signal{PrefixStats{
		HostKey:   urlutil.HostKey(u).Bytes(),
		PrefixKey: urlutil.URLKey(prefix).Bytes(),
		UpdatedTS: time.Now(),
	}}, nil
}

// ProjectInlinkAgg emits one InlinkAgg row per discovered outlink (url,
// host, and site granularity) for the most recent Uris metadata entry, per
// spec.md §4.9's URL Extractor Task output.
func ProjectInlinkAgg(r record.Record) ([]Signal, error) {
	var uris []string
	for _, m := range r.Metadata {
		if u, ok := m.(record.Uris); ok {
			uris = u.Uris
		}
	}
	if len(uris) == 0 {
		return nil, nil
	}

	now := time.Now()
	var out []Signal
	for _, raw := range uris {
		target, err := url.Parse(raw)
		if err != nil {
			continue
		}
		out = append(out,
			InlinkAgg{TargetKey: urlutil.URLKey(raw).Bytes(), Kind: InlinkKindURL, EMAInlinks: 1, UpdatedTS: now},
			InlinkAgg{TargetKey: urlutil.HostKey(target).Bytes(), Kind: InlinkKindHost, EMAInlinks: 1, UpdatedTS: now},
			InlinkAgg{TargetKey: urlutil.SiteKey(target).Bytes(), Kind: InlinkKindSite, EMAInlinks: 1, UpdatedTS: now},
		)
	}
	return out, nil
}

// ProjectDomainCoverage builds single-element HyperLogLog sketches: the
// record's URI always counts toward "discovered", and toward "fetched" only
// when its HttpResponse succeeded. Merging with the stored sketch (a union
// of HLLs) is the store layer's responsibility; this projector only
// contributes one observation.
func ProjectDomainCoverage(r record.Record) ([]Signal, error) {
	u, err := url.Parse(r.URI)
	if err != nil {
		return nil, aetherrors.NewUrlParseError(r.URI, err)
	}

	discovered := hyperloglog.New()
	discovered.Insert([]byte(r.URI))
	discoveredBytes, err := discovered.MarshalBinary()
	if err != nil {
		return nil, aetherrors.NewIOError("marshal discovered hll", err)
	}

	var fetchedBytes []byte
	if resp, ok := r.LatestHttpResponse(); ok && resp.ObjectKey != "" {
		fetched := hyperloglog.New()
		fetched.Insert([]byte(r.URI))
		fetchedBytes, err = fetched.MarshalBinary()
		if err != nil {
			return nil, aetherrors.NewIOError("marshal fetched hll", err)
		}
	}

	return []Signal{DomainCoverage{
		SiteKey:       urlutil.SiteKey(u).Bytes(),
		DiscoveredHLL: discoveredBytes,
		FetchedHLL:    fetchedBytes,
		UpdatedTS:     time.Now(),
	}}, nil
}

// ProjectDomainAuthorityPrior never emits from a record: authority priors
// are seeded and revised by the downstream ranker, which spec.md §1 places
// out of scope for this core. The type and its DDL/upsert remain so the
// ranker can write through the same Signal contract as every other row.
func ProjectDomainAuthorityPrior(r record.Record) ([]Signal, error) {
	return nil, nil
}

func headerValue(headers map[string]string, name string) string {
	if headers == nil {
		return ""
	}
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func firstPathSegment(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return "/" + trimmed[:i]
	}
	if trimmed == "" {
		return "/"
	}
	return "/" + trimmed
}
