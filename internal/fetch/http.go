// Package fetch implements the two fetch engines (C9, C10): a direct
// net/http client and a headless-browser client sharing a common
// HttpResponse contract. Neither ever fails the task.Task.OnMessage call —
// transport and CDP failures are always encoded into the returned Record's
// metadata, per the teacher's retry-and-continue style in
// tools/crawler/requests_crawler.go's fetchAndParse.
package fetch

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/iakinsey/aetherscope/internal/config"
	"github.com/iakinsey/aetherscope/internal/objectstore"
	"github.com/iakinsey/aetherscope/internal/record"
	"github.com/iakinsey/aetherscope/internal/registry"
)

// HTTPFetcher implements C9: a direct HTTP fetch, streamed into the object
// store. Its client is built once at construction, following the teacher's
// shared package-level httpClient shape, but scoped to a single instance so
// multiple configurations (different user-agent or proxy) can coexist.
type HTTPFetcher struct {
	client *http.Client
	cfg    config.FetcherConfig
	store  objectstore.Store
}

// NewHTTPFetcher builds an HTTPFetcher from cfg, resolving the object store
// to write fetched bodies to by cfg.ObjectStoreName through the dependency
// registry (spec.md §5, §6).
func NewHTTPFetcher(cfg config.FetcherConfig) (*HTTPFetcher, error) {
	cfg = cfg.WithDefaults()

	store, err := registry.Lookup(cfg.ObjectStoreName)
	if err != nil {
		return nil, err
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	if cfg.ProxyServer != "" {
		if proxyURL, err := url.Parse(cfg.ProxyServer); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return &HTTPFetcher{
		client: &http.Client{Timeout: cfg.Timeout(), Transport: transport},
		cfg:    cfg,
		store:  store,
	}, nil
}

// OnMessage implements task.Task: it fetches r.URI and appends exactly one
// HttpResponse metadata entry describing the outcome.
func (f *HTTPFetcher) OnMessage(ctx context.Context, r record.Record) (record.Record, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URI, nil)
	if err != nil {
		observeFetch(f.cfg.EnableHTTPMetrics, "http", "error", time.Since(start).Seconds())
		return r.WithMetadata(f.transportFailure(req, start, err)), nil
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	requestInfo := record.RequestInfo{
		Method:           req.Method,
		RequestHeaders:   headerMap(req.Header),
		RequestTimestamp: start,
	}

	resp, err := f.client.Do(req)
	if err != nil {
		observeFetch(f.cfg.EnableHTTPMetrics, "http", "error", time.Since(start).Seconds())
		return r.WithMetadata(record.HttpResponse{
			Request: requestInfo,
			Error:   err.Error(),
		}), nil
	}
	defer resp.Body.Close()

	key := uuid.NewString()
	putErr := f.store.PutStream(ctx, key, resp.Body)
	now := time.Now()

	if putErr != nil {
		observeFetch(f.cfg.EnableHTTPMetrics, "http", "error", time.Since(start).Seconds())
		return r.WithMetadata(record.HttpResponse{
			Request:           requestInfo,
			ResponseTimestamp: &now,
			Error:             putErr.Error(),
		}), nil
	}

	status := resp.StatusCode
	observeFetch(f.cfg.EnableHTTPMetrics, "http", "ok", time.Since(start).Seconds())
	return r.WithMetadata(record.HttpResponse{
		Status:            &status,
		Request:           requestInfo,
		ResponseHeaders:   headerMap(resp.Header),
		ObjectKey:         key,
		ResponseTimestamp: &now,
	}), nil
}

func (f *HTTPFetcher) transportFailure(req *http.Request, start time.Time, err error) record.HttpResponse {
	info := record.RequestInfo{Method: http.MethodGet, RequestTimestamp: start}
	if req != nil {
		info.Method = req.Method
		info.RequestHeaders = headerMap(req.Header)
	}
	return record.HttpResponse{Request: info, Error: err.Error()}
}

// headerMap flattens an http.Header into a single string per key, taking
// the first value — HttpResponse carries one representative value per
// header name rather than the full multi-value form.
func headerMap(h http.Header) map[string]string {
	if len(h) == 0 {
		return nil
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
