package signal

import "time"

// URLState is the per-URL fetch-history row (spec.md §3, §4.11).
type URLState struct {
	URLKey             []byte
	LastFetchTS        time.Time
	LastStatus         int
	Etag               string
	LastModified       string
	ContentFingerprint int64
	EMAChange          float64
	EMASoft404         float64
	EMAThinness        float64
	EMALatency         float64
	EMABytes           float64
	UpdatedTS          time.Time
}

func (URLState) DDL() string {
	return `CREATE TABLE IF NOT EXISTS url_state (
		url_key blob PRIMARY KEY,
		last_fetch_ts timestamp,
		last_status int,
		etag text,
		last_modified text,
		content_fingerprint bigint,
		ema_change double,
		ema_soft404 double,
		ema_thinness double,
		ema_latency double,
		ema_bytes double,
		updated_ts timestamp
	)`
}

func (URLState) UpsertCQL() string {
	return `INSERT INTO url_state (
		url_key, last_fetch_ts, last_status, etag, last_modified,
		content_fingerprint, ema_change, ema_soft404, ema_thinness,
		ema_latency, ema_bytes, updated_ts
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
}

func (s URLState) Bind() []interface{} {
	return []interface{}{
		s.URLKey, s.LastFetchTS, s.LastStatus, s.Etag, s.LastModified,
		s.ContentFingerprint, s.EMAChange, s.EMASoft404, s.EMAThinness,
		s.EMALatency, s.EMABytes, s.UpdatedTS,
	}
}

// URLDepth records how far a URL sits from its seed.
type URLDepth struct {
	URLKey       []byte
	Depth        int
	DiscoveredTS time.Time
	UpdatedTS    time.Time
}

func (URLDepth) DDL() string {
	return `CREATE TABLE IF NOT EXISTS url_depth (
		url_key blob PRIMARY KEY,
		depth int,
		discovered_ts timestamp,
		updated_ts timestamp
	)`
}

func (URLDepth) UpsertCQL() string {
	return `INSERT INTO url_depth (url_key, depth, discovered_ts, updated_ts) VALUES (?, ?, ?, ?)`
}

func (s URLDepth) Bind() []interface{} {
	return []interface{}{s.URLKey, s.Depth, s.DiscoveredTS, s.UpdatedTS}
}

// HostGate is the per-host politeness gate.
type HostGate struct {
	HostKey       []byte
	NextAllowedTS time.Time
	LeaseUntilTS  time.Time
	LeaseOwner    string
	UpdatedTS     time.Time
}

func (HostGate) DDL() string {
	return `CREATE TABLE IF NOT EXISTS host_gate (
		host_key blob PRIMARY KEY,
		next_allowed_ts timestamp,
		lease_until_ts timestamp,
		lease_owner text,
		updated_ts timestamp
	)`
}

func (HostGate) UpsertCQL() string {
	return `INSERT INTO host_gate (host_key, next_allowed_ts, lease_until_ts, lease_owner, updated_ts) VALUES (?, ?, ?, ?, ?)`
}

func (s HostGate) Bind() []interface{} {
	return []interface{}{s.HostKey, s.NextAllowedTS, s.LeaseUntilTS, s.LeaseOwner, s.UpdatedTS}
}

// HostStatsStripe is one stripe of a striped per-host counter set. Stripes
// exist to spread write load across partitions; readers merge stripes.
type HostStatsStripe struct {
	HostKey           []byte
	Stripe            int
	EMALatency        float64
	EMABytes          float64
	Count2xx          int64
	Count3xx          int64
	Count4xx          int64
	Count5xx          int64
	Count429          int64
	CountTimeout      int64
	EMANovelOutlinks  float64
	EMADupeOutlinks   float64
	EMARedirects      float64
	UpdatedTS         time.Time
}

func (HostStatsStripe) DDL() string {
	return `CREATE TABLE IF NOT EXISTS host_stats_stripe (
		host_key blob,
		stripe int,
		ema_latency double,
		ema_bytes double,
		count_2xx bigint,
		count_3xx bigint,
		count_4xx bigint,
		count_5xx bigint,
		count_429 bigint,
		count_timeout bigint,
		ema_novel_outlinks double,
		ema_dupe_outlinks double,
		ema_redirects double,
		updated_ts timestamp,
		PRIMARY KEY ((host_key), stripe)
	)`
}

func (HostStatsStripe) UpsertCQL() string {
	return `INSERT INTO host_stats_stripe (
		host_key, stripe, ema_latency, ema_bytes, count_2xx, count_3xx,
		count_4xx, count_5xx, count_429, count_timeout,
		ema_novel_outlinks, ema_dupe_outlinks, ema_redirects, updated_ts
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
}

func (s HostStatsStripe) Bind() []interface{} {
	return []interface{}{
		s.HostKey, s.Stripe, s.EMALatency, s.EMABytes, s.Count2xx, s.Count3xx,
		s.Count4xx, s.Count5xx, s.Count429, s.CountTimeout,
		s.EMANovelOutlinks, s.EMADupeOutlinks, s.EMARedirects, s.UpdatedTS,
	}
}

// PrefixStats tracks per-URL-template behaviour under a host.
type PrefixStats struct {
	HostKey     []byte
	PrefixKey   []byte
	EMADupRate  float64
	EMANovelty  float64
	EMANearDup  float64
	Variance    float64
	UpdatedTS   time.Time
}

func (PrefixStats) DDL() string {
	return `CREATE TABLE IF NOT EXISTS prefix_stats (
		host_key blob,
		prefix_key blob,
		ema_dup_rate double,
		ema_novelty double,
		ema_near_dup double,
		variance double,
		updated_ts timestamp,
		PRIMARY KEY ((host_key), prefix_key)
	)`
}

func (PrefixStats) UpsertCQL() string {
	return `INSERT INTO prefix_stats (
		host_key, prefix_key, ema_dup_rate, ema_novelty, ema_near_dup, variance, updated_ts
	) VALUES (?, ?, ?, ?, ?, ?, ?)`
}

func (s PrefixStats) Bind() []interface{} {
	return []interface{}{s.HostKey, s.PrefixKey, s.EMADupRate, s.EMANovelty, s.EMANearDup, s.Variance, s.UpdatedTS}
}

// InlinkKind enumerates the granularity an InlinkAgg row aggregates at.
type InlinkKind string

const (
	InlinkKindURL  InlinkKind = "url"
	InlinkKindHost InlinkKind = "host"
	InlinkKindSite InlinkKind = "site"
)

// InlinkAgg aggregates inbound-link pressure on a target, by kind.
type InlinkAgg struct {
	TargetKey []byte
	Kind      InlinkKind
	EMAInlinks float64
	UpdatedTS time.Time
}

func (InlinkAgg) DDL() string {
	return `CREATE TABLE IF NOT EXISTS inlink_agg (
		target_key blob,
		kind text,
		ema_inlinks double,
		updated_ts timestamp,
		PRIMARY KEY ((target_key), kind)
	)`
}

func (InlinkAgg) UpsertCQL() string {
	return `INSERT INTO inlink_agg (target_key, kind, ema_inlinks, updated_ts) VALUES (?, ?, ?, ?)`
}

func (s InlinkAgg) Bind() []interface{} {
	return []interface{}{s.TargetKey, string(s.Kind), s.EMAInlinks, s.UpdatedTS}
}

// DomainCoverage carries HyperLogLog sketches of discovered vs. fetched
// URLs under a site, marshaled via github.com/axiomhq/hyperloglog.
type DomainCoverage struct {
	SiteKey       []byte
	DiscoveredHLL []byte
	FetchedHLL    []byte
	UpdatedTS     time.Time
}

func (DomainCoverage) DDL() string {
	return `CREATE TABLE IF NOT EXISTS domain_coverage (
		site_key blob PRIMARY KEY,
		discovered_hll blob,
		fetched_hll blob,
		updated_ts timestamp
	)`
}

func (DomainCoverage) UpsertCQL() string {
	return `INSERT INTO domain_coverage (site_key, discovered_hll, fetched_hll, updated_ts) VALUES (?, ?, ?, ?)`
}

func (s DomainCoverage) Bind() []interface{} {
	return []interface{}{s.SiteKey, s.DiscoveredHLL, s.FetchedHLL, s.UpdatedTS}
}

// DomainAuthorityPrior is a slowly-changing authority score per site.
type DomainAuthorityPrior struct {
	SiteKey    []byte
	PriorScore float64
	UpdatedTS  time.Time
}

func (DomainAuthorityPrior) DDL() string {
	return `CREATE TABLE IF NOT EXISTS domain_authority_prior (
		site_key blob PRIMARY KEY,
		prior_score double,
		updated_ts timestamp
	)`
}

func (DomainAuthorityPrior) UpsertCQL() string {
	return `INSERT INTO domain_authority_prior (site_key, prior_score, updated_ts) VALUES (?, ?, ?)`
}

func (s DomainAuthorityPrior) Bind() []interface{} {
	return []interface{}{s.SiteKey, s.PriorScore, s.UpdatedTS}
}
