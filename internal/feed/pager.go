package feed

import (
	"context"
	"fmt"

	"github.com/pders01/popfeed/internal/debuglog"
)

// State is the paging cursor of one feed.
type State struct {
	Page       int
	Loading    bool
	ReachedEnd bool
}

// Request is a claimed load. Page is captured when the load starts.
type Request struct {
	Page int
}

// Pager owns a feed's State and the items loaded so far. At most one
// request is in flight at a time and none after the end is reached.
// A Pager is not safe for concurrent use; callers serialize Begin and
// Complete on one goroutine.
type Pager struct {
	provider PageProvider
	state    State
	items    []Item
}

func NewPager(provider PageProvider) *Pager {
	return &Pager{provider: provider}
}

func (p *Pager) State() State { return p.state }

// Items returns the loaded items in insertion order.
func (p *Pager) Items() []Item {
	out := make([]Item, len(p.items))
	copy(out, p.items)
	return out
}

func (p *Pager) Len() int { return len(p.items) }

// Begin claims the in-flight slot. It reports false while a request is
// pending or once the source is exhausted.
func (p *Pager) Begin() (Request, bool) {
	if p.state.Loading || p.state.ReachedEnd {
		return Request{}, false
	}
	p.state.Loading = true
	debuglog.Debugf("page %d requested", p.state.Page)
	return Request{Page: p.state.Page}, true
}

// Fetch asks the provider for req's page. A panicking provider is
// reported as ErrProviderPanic.
func (p *Pager) Fetch(ctx context.Context, req Request) (res PageResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = PageResult{}
			err = fmt.Errorf("page %d: %w: %v", req.Page, ErrProviderPanic, r)
		}
	}()
	return p.provider.FetchPage(ctx, req.Page)
}

// Complete applies the outcome of req and releases the in-flight slot on
// every path.
func (p *Pager) Complete(req Request, res PageResult, err error) ([]Item, error) {
	defer p.release()
	return p.apply(req, res, err)
}

// LoadNext runs Begin, Fetch and Complete inline. It returns nil, nil
// when the guard rejects the load.
func (p *Pager) LoadNext(ctx context.Context) ([]Item, error) {
	req, ok := p.Begin()
	if !ok {
		return nil, nil
	}
	defer p.release()

	res, err := p.provider.FetchPage(ctx, req.Page)
	return p.apply(req, res, err)
}

func (p *Pager) apply(req Request, res PageResult, err error) ([]Item, error) {
	if err != nil {
		debuglog.WithFields(map[string]interface{}{"page": req.Page}).Warnf("page load failed: %v", err)
		return nil, fmt.Errorf("loading page %d: %w", req.Page, err)
	}
	if req.Page != p.state.Page {
		return nil, fmt.Errorf("page %d, expected %d: %w", req.Page, p.state.Page, ErrStaleRequest)
	}

	if len(res.Items) == 0 {
		p.state.ReachedEnd = true
		debuglog.Infof("feed exhausted after %d pages (%d items)", p.state.Page, len(p.items))
		return nil, nil
	}

	p.items = append(p.items, res.Items...)
	p.state.Page++
	debuglog.WithFields(map[string]interface{}{
		"page":  req.Page,
		"items": len(res.Items),
		"total": len(p.items),
	}).Debugf("page loaded")
	return res.Items, nil
}

func (p *Pager) release() {
	p.state.Loading = false
}
