package feed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/pders01/popfeed/internal/config"
)

// PageProvider serves numbered pages of items. An empty page means the
// source is exhausted.
type PageProvider interface {
	FetchPage(ctx context.Context, page int) (PageResult, error)
}

const (
	DefaultPageSize = 12
	DefaultMaxPages = 6
	DefaultMinDelay = 600 * time.Millisecond
	DefaultMaxDelay = 1200 * time.Millisecond
)

// SimulatedSource stands in for a paged backend. It answers after a random
// delay with sequential ids and runs dry after MaxPages pages.
type SimulatedSource struct {
	PageSize int
	MaxPages int
	MinDelay time.Duration
	MaxDelay time.Duration

	// jitter returns a value in [0, 1).
	jitter func() float64
}

func NewSimulatedSource(cfg *config.Config) *SimulatedSource {
	s := &SimulatedSource{
		PageSize: cfg.Feed.PageSize,
		MaxPages: cfg.Feed.MaxPages,
		MinDelay: cfg.Feed.MinDelay,
		MaxDelay: cfg.Feed.MaxDelay,
		jitter:   rand.Float64,
	}
	if s.PageSize <= 0 {
		s.PageSize = DefaultPageSize
	}
	if s.MaxPages < 0 {
		s.MaxPages = DefaultMaxPages
	}
	return s
}

// WithoutDelay returns a copy that answers immediately.
func (s *SimulatedSource) WithoutDelay() *SimulatedSource {
	c := *s
	c.MinDelay, c.MaxDelay = 0, 0
	return &c
}

// Delay picks the simulated latency for one request.
func (s *SimulatedSource) Delay() time.Duration {
	if s.MaxDelay <= s.MinDelay {
		return s.MinDelay
	}
	j := rand.Float64
	if s.jitter != nil {
		j = s.jitter
	}
	span := s.MaxDelay - s.MinDelay
	return s.MinDelay + time.Duration(j()*float64(span))
}

func (s *SimulatedSource) FetchPage(ctx context.Context, page int) (PageResult, error) {
	if page < 0 {
		return PageResult{}, fmt.Errorf("page %d: %w", page, ErrInvalidPage)
	}

	if d := s.Delay(); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return PageResult{}, ctx.Err()
		case <-timer.C:
		}
	}

	if page >= s.MaxPages {
		return PageResult{Items: []Item{}, End: true}, nil
	}

	start := page * s.PageSize
	items := make([]Item, 0, s.PageSize)
	for id := start; id < start+s.PageSize; id++ {
		items = append(items, Item{ID: id})
	}
	return PageResult{Items: items, End: false}, nil
}
