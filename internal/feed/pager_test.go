package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/popfeed/internal/config"
)

// recordingProvider wraps another provider and records requested pages.
type recordingProvider struct {
	inner     PageProvider
	requested []int
	err       error
	panicMsg  string
}

func (r *recordingProvider) FetchPage(ctx context.Context, page int) (PageResult, error) {
	r.requested = append(r.requested, page)
	if r.panicMsg != "" {
		panic(r.panicMsg)
	}
	if r.err != nil {
		return PageResult{}, r.err
	}
	return r.inner.FetchPage(ctx, page)
}

func newTestPager() (*Pager, *recordingProvider) {
	rp := &recordingProvider{inner: NewSimulatedSource(config.TestConfig()).WithoutDelay()}
	return NewPager(rp), rp
}

func TestPager_LoadsAllPagesThenStops(t *testing.T) {
	p, rp := newTestPager()
	ctx := context.Background()

	for i := 0; i < DefaultMaxPages; i++ {
		items, err := p.LoadNext(ctx)
		require.NoError(t, err)
		assert.Len(t, items, DefaultPageSize)
	}

	require.Equal(t, 72, p.Len())
	for i, item := range p.Items() {
		assert.Equal(t, i, item.ID)
	}
	assert.False(t, p.State().ReachedEnd)

	// The seventh request discovers the end.
	items, err := p.LoadNext(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.True(t, p.State().ReachedEnd)
	assert.Equal(t, DefaultMaxPages, p.State().Page)

	// Further loads are no-ops and never reach the provider.
	before := len(rp.requested)
	items, err = p.LoadNext(ctx)
	require.NoError(t, err)
	assert.Nil(t, items)
	assert.Len(t, rp.requested, before)
	assert.Equal(t, 72, p.Len())
}

func TestPager_SingleRequestInFlight(t *testing.T) {
	p, _ := newTestPager()

	req, ok := p.Begin()
	require.True(t, ok)
	assert.Equal(t, 0, req.Page)
	assert.True(t, p.State().Loading)

	for i := 0; i < 5; i++ {
		_, ok := p.Begin()
		assert.False(t, ok, "second Begin must be rejected while loading")
	}

	res, err := p.Fetch(context.Background(), req)
	require.NoError(t, err)
	_, err = p.Complete(req, res, nil)
	require.NoError(t, err)
	assert.False(t, p.State().Loading)

	next, ok := p.Begin()
	require.True(t, ok)
	assert.Equal(t, 1, next.Page)
}

func TestPager_NoDuplicatePageRequests(t *testing.T) {
	p, rp := newTestPager()
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		req, ok := p.Begin()
		if !ok {
			break
		}
		// Interleaved triggers while the request is pending.
		_, _ = p.LoadNext(ctx)
		_, dup := p.Begin()
		assert.False(t, dup)

		res, err := p.Fetch(ctx, req)
		_, _ = p.Complete(req, res, err)
	}

	seen := map[int]bool{}
	for _, page := range rp.requested {
		assert.False(t, seen[page], "page %d requested twice", page)
		seen[page] = true
	}
	assert.True(t, p.State().ReachedEnd)
}

func TestPager_ErrorReleasesWithoutAdvancing(t *testing.T) {
	p, rp := newTestPager()
	rp.err = errors.New("boom")

	items, err := p.LoadNext(context.Background())
	assert.Error(t, err)
	assert.Nil(t, items)
	assert.Equal(t, State{Page: 0}, p.State())

	rp.err = nil
	items, err = p.LoadNext(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, DefaultPageSize)
	assert.Equal(t, 1, p.State().Page)
}

func TestPager_FetchRecoversPanic(t *testing.T) {
	p, rp := newTestPager()
	rp.panicMsg = "provider exploded"

	req, ok := p.Begin()
	require.True(t, ok)
	res, err := p.Fetch(context.Background(), req)
	assert.ErrorIs(t, err, ErrProviderPanic)

	_, err = p.Complete(req, res, err)
	assert.ErrorIs(t, err, ErrProviderPanic)
	assert.False(t, p.State().Loading)
	assert.Equal(t, 0, p.State().Page)
}

func TestPager_LoadNextReleasesOnPanic(t *testing.T) {
	p, rp := newTestPager()
	rp.panicMsg = "provider exploded"

	assert.Panics(t, func() { _, _ = p.LoadNext(context.Background()) })
	assert.False(t, p.State().Loading)
}

func TestPager_StaleRequest(t *testing.T) {
	p, _ := newTestPager()

	_, ok := p.Begin()
	require.True(t, ok)

	_, err := p.Complete(Request{Page: 3}, PageResult{Items: []Item{{ID: 36}}}, nil)
	assert.ErrorIs(t, err, ErrStaleRequest)
	assert.False(t, p.State().Loading)
	assert.Zero(t, p.Len())
}

func TestPager_ItemsIsACopy(t *testing.T) {
	p, _ := newTestPager()
	_, err := p.LoadNext(context.Background())
	require.NoError(t, err)

	items := p.Items()
	items[0].ID = 999
	assert.Equal(t, 0, p.Items()[0].ID)
}
