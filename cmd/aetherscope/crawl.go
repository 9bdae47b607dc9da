package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/iakinsey/aetherscope/internal/config"
	"github.com/iakinsey/aetherscope/internal/extracttask"
	"github.com/iakinsey/aetherscope/internal/fetch"
	"github.com/iakinsey/aetherscope/internal/hashset"
	"github.com/iakinsey/aetherscope/internal/objectstore"
	"github.com/iakinsey/aetherscope/internal/record"
	"github.com/iakinsey/aetherscope/internal/registry"
	"github.com/iakinsey/aetherscope/internal/robots"
	signalstore "github.com/iakinsey/aetherscope/internal/signal"
	"github.com/iakinsey/aetherscope/internal/tabpool"
	"github.com/iakinsey/aetherscope/internal/task"
	"github.com/iakinsey/aetherscope/internal/unique"
)

var crawlOpts struct {
	storeDir        string
	workers         int
	headless        bool
	maxPages        int
	rateMillis      int
	userAgent       string
	timeoutSecs     int
	hashSetKind     string
	hashSetPath     string
	hashSetURI      string
	bloomEnable     bool
	bloomFPRate     float64
	bloomMaxSize    uint
	signalHosts     []string
	signalKeyspace  string
	signalBatchSize int
}

// crawlJob is one frontier entry: a URI paired with its distance from a
// seed, threaded through so C12's url_depth projection has something to
// report beyond "unknown".
type crawlJob struct {
	uri   string
	depth int
}

var crawlCmd = &cobra.Command{
	Use:   "crawl [seed-url...]",
	Short: "Crawl a seed set of URLs through the CORE pipeline",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCrawl,
}

func init() {
	f := crawlCmd.Flags()
	f.StringVar(&crawlOpts.storeDir, "store-dir", "./aetherscope-data/objects", "object store root directory")
	f.IntVar(&crawlOpts.workers, "workers", 4, "number of concurrent fetch workers")
	f.BoolVar(&crawlOpts.headless, "headless", false, "fetch via a headless browser tab pool instead of direct HTTP")
	f.IntVar(&crawlOpts.maxPages, "max-pages", 200, "stop after fetching this many pages")
	f.IntVar(&crawlOpts.rateMillis, "rate-ms", 200, "minimum milliseconds between fetches, shared across all workers")
	f.StringVar(&crawlOpts.userAgent, "user-agent", "", "User-Agent header (defaults to aetherscope - <version>)")
	f.IntVar(&crawlOpts.timeoutSecs, "timeout", 20, "per-fetch timeout in seconds")
	f.StringVar(&crawlOpts.hashSetKind, "hashset", "sqlite", "exact-membership backend: none, sqlite, redis")
	f.StringVar(&crawlOpts.hashSetPath, "hashset-path", "./aetherscope-data/seen.db", "sqlite hashset path")
	f.StringVar(&crawlOpts.hashSetURI, "hashset-redis-addr", "127.0.0.1:6379", "redis hashset address")
	f.BoolVar(&crawlOpts.bloomEnable, "bloom", true, "enable the bloom-filter tier of the unique filter")
	f.Float64Var(&crawlOpts.bloomFPRate, "bloom-fp-rate", 0.001, "bloom filter target false-positive rate")
	f.UintVar(&crawlOpts.bloomMaxSize, "bloom-expected-items", 1_000_000, "bloom filter expected item count")
	f.StringSliceVar(&crawlOpts.signalHosts, "signal-hosts", nil, "Cassandra contact points for signal-row writes (unset disables signal persistence)")
	f.StringVar(&crawlOpts.signalKeyspace, "signal-keyspace", "aetherscope", "Cassandra keyspace for signal rows")
	f.IntVar(&crawlOpts.signalBatchSize, "signal-batch-size", 50, "max signal rows per upsert batch")
	rootCmd.AddCommand(crawlCmd)
}

func runCrawl(cmd *cobra.Command, seeds []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("crawl: interrupt received, shutting down...")
		cancel()
	}()

	store, err := objectstore.NewFSStore(crawlOpts.storeDir)
	if err != nil {
		return fmt.Errorf("open object store: %w", err)
	}
	const objectStoreName = "crawl-objects"
	registry.Register(objectStoreName, store)

	hashSetBackend, err := buildHashSet()
	if err != nil {
		return err
	}

	uf := unique.New(unique.Config{
		BloomEnabled:       crawlOpts.bloomEnable,
		BloomFPRate:        crawlOpts.bloomFPRate,
		BloomExpectedItems: crawlOpts.bloomMaxSize,
		HashSet:            hashSetBackend,
	})

	fetcherCfg := config.FetcherConfig{
		UserAgent:       crawlOpts.userAgent,
		TimeoutSeconds:  crawlOpts.timeoutSecs,
		ObjectStoreName: objectStoreName,
	}.WithDefaults()

	rf := robots.New(config.RobotsConfig{HTTPConfig: fetcherCfg})
	extractor := extracttask.New(store)

	fetcher, closeFetcher, err := buildFetcher(ctx, fetcherCfg)
	if err != nil {
		return err
	}
	if closeFetcher != nil {
		defer closeFetcher()
	}

	signalSession, err := buildSignalSession()
	if err != nil {
		return err
	}
	if signalSession != nil {
		defer signalSession.Close()
	}
	writeSignals := signalWriter(signalSession, crawlOpts.signalBatchSize)

	jobs := make(chan crawlJob, 4096)
	var pending sync.WaitGroup
	var fetched int
	var fetchedMu sync.Mutex
	limiter := time.NewTicker(time.Duration(crawlOpts.rateMillis) * time.Millisecond)
	defer limiter.Stop()

	var enqueue func(uris []string, depth int)
	enqueue = func(uris []string, depth int) {
		for _, u := range uris {
			pending.Add(1)
			select {
			case jobs <- crawlJob{uri: u, depth: depth}:
			case <-ctx.Done():
				pending.Done()
			}
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < crawlOpts.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				processOne(ctx, j, uf, rf, fetcher, extractor, limiter, enqueue, writeSignals, &fetchedMu, &fetched)
				pending.Done()
			}
		}()
	}

	enqueue(seeds, 0)

	done := make(chan struct{})
	go func() {
		pending.Wait()
		close(jobs)
	}()
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		wg.Wait()
	}

	log.Printf("crawl: fetched %d pages", fetched)
	return nil
}

func processOne(
	ctx context.Context,
	j crawlJob,
	uf *unique.Filter,
	rf *robots.Filter,
	fetcher task.Task,
	extractor *extracttask.Task,
	limiter *time.Ticker,
	enqueue func([]string, int),
	writeSignals func(record.Record, int),
	fetchedMu *sync.Mutex,
	fetched *int,
) {
	uri := j.uri

	select {
	case <-ctx.Done():
		return
	default:
	}

	uniqResults, err := uf.Perform(ctx, []string{uri})
	if err != nil {
		log.Printf("crawl: unique filter error for %s: %v", uri, err)
		return
	}
	if len(uniqResults) == 0 || uniqResults[0].WasSeen {
		return
	}

	robotsResults, err := rf.Perform(ctx, []string{uri})
	if err != nil {
		log.Printf("crawl: robots filter error for %s: %v", uri, err)
		return
	}
	if len(robotsResults) == 0 || !robotsResults[0].Allowed {
		return
	}

	select {
	case <-limiter.C:
	case <-ctx.Done():
		return
	}

	fetchedMu.Lock()
	limit := crawlOpts.maxPages
	if *fetched >= limit {
		fetchedMu.Unlock()
		return
	}
	*fetched++
	fetchedMu.Unlock()

	r, err := record.New(uri, uuid.NewString())
	if err != nil {
		log.Printf("crawl: skipping invalid uri %s: %v", uri, err)
		return
	}

	r, err = fetcher.OnMessage(ctx, r)
	if err != nil {
		log.Printf("crawl: fetch task error for %s: %v", uri, err)
		return
	}

	r, err = extractor.OnMessage(ctx, r)
	if err != nil {
		log.Printf("crawl: extract task error for %s: %v", uri, err)
		return
	}

	resp, ok := r.LatestHttpResponse()
	if !ok || resp.Error != "" {
		if ok {
			log.Printf("crawl: fetch failed for %s: %s", uri, resp.Error)
		}
		return
	}

	writeSignals(r, j.depth)

	for _, m := range r.Metadata {
		if uris, ok := m.(record.Uris); ok {
			enqueue(uris.Uris, j.depth+1)
		}
	}
}

func buildHashSet() (hashset.Backend, error) {
	switch crawlOpts.hashSetKind {
	case "none", "":
		return nil, nil
	case "sqlite":
		return hashset.NewSQLiteBackend(crawlOpts.hashSetPath)
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: crawlOpts.hashSetURI})
		return hashset.NewRedisBackend(client, "aetherscope:seen:", 0), nil
	default:
		return nil, fmt.Errorf("unknown hashset backend %q", crawlOpts.hashSetKind)
	}
}

// buildSignalSession connects to the Cassandra cluster named by
// --signal-hosts and ensures the signal schema exists, mirroring schema.go's
// standalone `schema` subcommand so `crawl` can run against a fresh
// keyspace. Signal persistence is opt-in: an empty --signal-hosts returns a
// nil session, and writeSignals treats a nil session as "do nothing".
func buildSignalSession() (*gocql.Session, error) {
	if len(crawlOpts.signalHosts) == 0 {
		return nil, nil
	}
	cluster := gocql.NewCluster(crawlOpts.signalHosts...)
	cluster.Keyspace = crawlOpts.signalKeyspace
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("connect to signal store: %w", err)
	}
	if err := signalstore.EnsureSchema(session); err != nil {
		session.Close()
		return nil, fmt.Errorf("ensure signal schema: %w", err)
	}
	return session, nil
}

// signalWriter returns the per-record signal-projection-and-upsert callback
// processOne invokes after a successful fetch (C12, spec.md §4.11). When
// session is nil it returns a no-op, so --signal-hosts remains optional.
func signalWriter(session *gocql.Session, batchSize int) func(record.Record, int) {
	if session == nil {
		return func(record.Record, int) {}
	}
	return func(r record.Record, depth int) {
		rows, err := projectSignalRows(r, depth)
		if err != nil {
			log.Printf("crawl: signal projection error for %s: %v", r.URI, err)
			return
		}
		if len(rows) == 0 {
			return
		}
		if err := signalstore.UpsertMany(session, rows, batchSize); err != nil {
			log.Printf("crawl: signal upsert error for %s: %v", r.URI, err)
		}
	}
}

// projectSignalRows runs every per-record signal projection (C12) that a
// completed fetch record can support on its own, per the scope decisions in
// DESIGN.md — domain_authority_prior is a downstream-ranker concern and
// never emits, so it is not called here.
func projectSignalRows(r record.Record, depth int) ([]signalstore.Signal, error) {
	var rows []signalstore.Signal

	urlState, err := signalstore.ProjectURLState(r)
	if err != nil {
		return nil, err
	}
	rows = append(rows, urlState...)

	depthRow, err := signalstore.ProjectURLDepth(r, depth, time.Now())
	if err != nil {
		return nil, err
	}
	rows = append(rows, depthRow)

	hostGate, err := signalstore.ProjectHostGate(r)
	if err != nil {
		return nil, err
	}
	rows = append(rows, hostGate)

	stripeRows, err := signalstore.ProjectHostStatsStripe(r)
	if err != nil {
		return nil, err
	}
	rows = append(rows, stripeRows...)

	prefixRows, err := signalstore.ProjectPrefixStats(r)
	if err != nil {
		return nil, err
	}
	rows = append(rows, prefixRows...)

	inlinkRows, err := signalstore.ProjectInlinkAgg(r)
	if err != nil {
		return nil, err
	}
	rows = append(rows, inlinkRows...)

	coverageRows, err := signalstore.ProjectDomainCoverage(r)
	if err != nil {
		return nil, err
	}
	rows = append(rows, coverageRows...)

	return rows, nil
}

func buildFetcher(ctx context.Context, fetcherCfg config.FetcherConfig) (task.Task, func(), error) {
	if !crawlOpts.headless {
		f, err := fetch.NewHTTPFetcher(fetcherCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("build http fetcher: %w", err)
		}
		return f, nil, nil
	}

	pool, err := tabpool.New(ctx, config.TabPoolConfig{UserAgent: fetcherCfg.UserAgent})
	if err != nil {
		return nil, nil, fmt.Errorf("start browser tab pool: %w", err)
	}
	headlessCfg := config.HeadlessConfig{FetcherConfig: fetcherCfg}.WithDefaults()
	f, err := fetch.NewHeadlessFetcher(headlessCfg, pool)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("build headless fetcher: %w", err)
	}
	return f, pool.Close, nil
}
