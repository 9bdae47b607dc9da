package fetch

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"

	"github.com/iakinsey/aetherscope/internal/config"
	aetherrors "github.com/iakinsey/aetherscope/internal/errors"
	"github.com/iakinsey/aetherscope/internal/objectstore"
	"github.com/iakinsey/aetherscope/internal/record"
	"github.com/iakinsey/aetherscope/internal/registry"
	"github.com/iakinsey/aetherscope/internal/tabpool"
)

// HeadlessFetcher implements C10: a single top-level-document fetch driven
// by correlating CDP network events on a tab drawn from a Pool. This is the
// hardest sub-component in the pipeline — the event ordering is not
// guaranteed, and some sites never emit LoadingFinished for the document
// request at all, hence the idle-timeout fallback below.
type HeadlessFetcher struct {
	cfg   config.HeadlessConfig
	pool  *tabpool.Pool
	store objectstore.Store
}

// NewHeadlessFetcher builds a HeadlessFetcher drawing tabs from pool and
// resolving the object store to write bodies to by cfg.ObjectStoreName
// through the dependency registry (spec.md §5, §6).
func NewHeadlessFetcher(cfg config.HeadlessConfig, pool *tabpool.Pool) (*HeadlessFetcher, error) {
	cfg = cfg.WithDefaults()
	store, err := registry.Lookup(cfg.ObjectStoreName)
	if err != nil {
		return nil, err
	}
	return &HeadlessFetcher{cfg: cfg, pool: pool, store: store}, nil
}

// OnMessage implements task.Task. A tab-pool exhaustion or creation failure
// is encoded as a failed HttpResponse, never propagated as an error: the
// caller's retry policy, if any, belongs to the upstream task runtime.
func (f *HeadlessFetcher) OnMessage(ctx context.Context, r record.Record) (record.Record, error) {
	start := time.Now()

	tab, err := f.pool.Get(ctx)
	if err != nil {
		observeFetch(f.cfg.EnableHTTPMetrics, "headless", "error", time.Since(start).Seconds())
		return r.WithMetadata(record.HttpResponse{
			Request: record.RequestInfo{Method: http.MethodGet, RequestTimestamp: start},
			Error:   err.Error(),
		}), nil
	}
	defer tab.Release()

	resp := f.fetchDocument(ctx, tab, r.URI, start)
	outcome := "ok"
	if resp.Error != "" {
		outcome = "error"
	}
	observeFetch(f.cfg.EnableHTTPMetrics, "headless", outcome, time.Since(start).Seconds())
	return r.WithMetadata(resp), nil
}

// docState accumulates the fields of the top-level document's
// request/response as CDP events arrive, in whatever order they arrive.
type docState struct {
	mu              sync.Mutex
	docRequestID    network.RequestID
	method          string
	requestHeaders  map[string]string
	status          *int
	responseHeaders map[string]string
	lastEvent       time.Time
}

func (s *docState) requestInfo(start time.Time) record.RequestInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	method := s.method
	if method == "" {
		method = http.MethodGet
	}
	return record.RequestInfo{
		Method:           method,
		RequestHeaders:   s.requestHeaders,
		RequestTimestamp: start,
	}
}

func (f *HeadlessFetcher) fetchDocument(ctx context.Context, tab *tabpool.Tab, uri string, start time.Time) record.HttpResponse {
	tabCtx := tab.Context()
	state := &docState{lastEvent: start}

	done := make(chan record.HttpResponse, 1)
	var finishOnce sync.Once
	finish := func(resp record.HttpResponse) {
		finishOnce.Do(func() { done <- resp })
	}

	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		switch e := ev.(type) {
		case *network.EventRequestWillBeSent:
			if e.Type != network.ResourceTypeDocument {
				return
			}
			state.mu.Lock()
			state.docRequestID = e.RequestID
			state.method = e.Request.Method
			state.requestHeaders = flattenHeaders(e.Request.Headers)
			state.lastEvent = time.Now()
			state.mu.Unlock()

		case *network.EventResponseReceived:
			if e.Type != network.ResourceTypeDocument {
				return
			}
			status := int(e.Response.Status)
			state.mu.Lock()
			state.docRequestID = e.RequestID
			state.status = &status
			state.responseHeaders = flattenHeaders(e.Response.Headers)
			state.lastEvent = time.Now()
			state.mu.Unlock()

		case *network.EventLoadingFinished:
			state.mu.Lock()
			matches := state.docRequestID != "" && e.RequestID == state.docRequestID
			state.lastEvent = time.Now()
			state.mu.Unlock()
			if matches {
				finish(f.captureBody(ctx, tabCtx, state, start))
			}
		}
	})

	navCtx, navCancel := context.WithTimeout(tabCtx, f.cfg.Timeout())
	defer navCancel()
	go func() {
		if err := chromedp.Run(navCtx, chromedp.Navigate(uri)); err != nil {
			finish(record.HttpResponse{Request: state.requestInfo(start), Error: err.Error()})
		}
	}()

	idleTimeout := f.cfg.IdleTimeout()
	ticker := time.NewTicker(idleTimeout / 4)
	defer ticker.Stop()

	for {
		select {
		case resp := <-done:
			return resp

		case <-ticker.C:
			state.mu.Lock()
			idle := time.Since(state.lastEvent)
			sawDoc := state.docRequestID != ""
			state.mu.Unlock()
			if idle < idleTimeout {
				continue
			}
			if sawDoc {
				finish(f.captureBody(ctx, tabCtx, state, start))
			} else {
				finish(record.HttpResponse{
					Request: state.requestInfo(start),
					Error:   "idle timeout before document request observed",
				})
			}

		case <-ctx.Done():
			finish(record.HttpResponse{Request: state.requestInfo(start), Error: ctx.Err().Error()})
			return <-done
		}
	}
}

// captureBody fetches the document body for the request tracked in state via
// Network.getResponseBody, decoding it if CDP reports it as base64, and
// stores it. Any CDP failure here is reported the same way C9 reports a
// transport failure: HttpResponse.Error set, no object key.
func (f *HeadlessFetcher) captureBody(ctx context.Context, tabCtx context.Context, state *docState, start time.Time) record.HttpResponse {
	state.mu.Lock()
	rid := state.docRequestID
	status := state.status
	responseHeaders := state.responseHeaders
	state.mu.Unlock()

	reqInfo := state.requestInfo(start)
	now := time.Now()

	if rid == "" {
		return record.HttpResponse{Request: reqInfo, ResponseTimestamp: &now, Error: "no document request observed"}
	}

	var bodyStr string
	var isBase64 bool
	err := chromedp.Run(tabCtx, chromedp.ActionFunc(func(actionCtx context.Context) error {
		var actionErr error
		bodyStr, isBase64, actionErr = network.GetResponseBody(rid).Do(actionCtx)
		return actionErr
	}))
	if err != nil {
		return record.HttpResponse{
			Request: reqInfo, Status: status, ResponseHeaders: responseHeaders,
			ResponseTimestamp: &now, Error: err.Error(),
		}
	}

	body := []byte(bodyStr)
	if isBase64 {
		decoded, decErr := base64.StdEncoding.DecodeString(bodyStr)
		if decErr != nil {
			return record.HttpResponse{
				Request: reqInfo, Status: status, ResponseHeaders: responseHeaders,
				ResponseTimestamp: &now, Error: aetherrors.NewBase64DecodeError(decErr).Error(),
			}
		}
		body = decoded
	}

	key := uuid.NewString()
	if err := f.store.Put(ctx, key, body); err != nil {
		return record.HttpResponse{
			Request: reqInfo, Status: status, ResponseHeaders: responseHeaders,
			ResponseTimestamp: &now, Error: err.Error(),
		}
	}

	return record.HttpResponse{
		Request: reqInfo, Status: status, ResponseHeaders: responseHeaders,
		ObjectKey: key, ResponseTimestamp: &now,
	}
}

// flattenHeaders converts CDP's network.Headers (map[string]interface{}, one
// entry per header name) into the single-string-per-key form HttpResponse
// carries.
func flattenHeaders(h network.Headers) map[string]string {
	if len(h) == 0 {
		return nil
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = fmt.Sprintf("%v", v)
	}
	return out
}
