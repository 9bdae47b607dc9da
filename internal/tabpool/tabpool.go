// Package tabpool implements C8: a bounded pool of single-use browser
// pages, built on chromedp. Every page is discard-on-release: CDP state
// (listeners, cookies, cache, service workers) accumulates across
// navigations, so a fresh tab per fetch is simpler than resetting one.
package tabpool

import (
	"context"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/iakinsey/aetherscope/internal/config"
)

// Pool bounds concurrent browser tabs at a fixed capacity.
type Pool struct {
	browserCtx context.Context
	cancel     context.CancelFunc
	sem        chan struct{}
	userAgent  string
}

// New launches a browser (optionally at cfg's BrowserPath) and returns a
// Pool bounded at cfg.Capacity.
func New(ctx context.Context, cfg config.TabPoolConfig) (*Pool, error) {
	cfg = cfg.WithDefaults()

	var opts []chromedp.ExecAllocatorOption
	opts = append(opts, chromedp.DefaultExecAllocatorOptions[:]...)
	if cfg.BrowserPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.BrowserPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	cancel := func() {
		browserCancel()
		allocCancel()
	}

	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		return nil, err
	}

	return &Pool{
		browserCtx: browserCtx,
		cancel:     cancel,
		sem:        make(chan struct{}, cfg.Capacity),
		userAgent:  cfg.UserAgent,
	}, nil
}

// Close tears down the underlying browser and all outstanding tabs.
func (p *Pool) Close() {
	p.cancel()
}

// Tab is a single-use page. Once released it must not be reused; the next
// caller needing a page calls Get again.
type Tab struct {
	ctx    context.Context
	cancel context.CancelFunc
	pool   *Pool
}

// Get blocks until capacity permits a new tab, then creates a blank page
// with the network domain enabled and, if configured, a user-agent
// override. Creation failures are propagated as pool errors and release
// the reserved capacity slot.
func (p *Pool) Get(ctx context.Context) (*Tab, error) {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	tabCtx, tabCancel := chromedp.NewContext(p.browserCtx)

	actions := []chromedp.Action{network.Enable()}
	if p.userAgent != "" {
		actions = append(actions, emulation.SetUserAgentOverride(p.userAgent))
	}
	if err := chromedp.Run(tabCtx, actions...); err != nil {
		tabCancel()
		<-p.sem
		return nil, err
	}

	return &Tab{ctx: tabCtx, cancel: tabCancel, pool: p}, nil
}

// Context returns the tab's chromedp context, for use with chromedp actions
// and CDP event listeners.
func (t *Tab) Context() context.Context {
	return t.ctx
}

// IsRecyclable always reports false: every tab is single-use, per C8's
// pool-manager contract.
func (t *Tab) IsRecyclable() bool {
	return false
}

// Release discards the tab and frees its capacity slot.
func (t *Tab) Release() {
	t.cancel()
	<-t.pool.sem
}
