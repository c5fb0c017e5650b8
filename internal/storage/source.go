package storage

import (
	"context"
	"fmt"

	"github.com/pders01/popfeed/internal/feed"
)

// Source serves feed pages from the store.
type Source struct {
	store    *Store
	pageSize int
}

func NewSource(store *Store, pageSize int) *Source {
	if pageSize <= 0 {
		pageSize = feed.DefaultPageSize
	}
	return &Source{store: store, pageSize: pageSize}
}

func (s *Source) FetchPage(ctx context.Context, page int) (feed.PageResult, error) {
	if page < 0 {
		return feed.PageResult{}, fmt.Errorf("page %d: %w", page, feed.ErrInvalidPage)
	}
	if err := ctx.Err(); err != nil {
		return feed.PageResult{}, err
	}

	records, err := s.store.Range(page*s.pageSize, s.pageSize)
	if err != nil {
		return feed.PageResult{}, fmt.Errorf("reading page %d: %w", page, err)
	}

	if len(records) == 0 {
		// A fresh database has no items yet; that is not the end of the feed.
		if _, err := s.store.Count(); err != nil {
			return feed.PageResult{}, fmt.Errorf("reading page %d: %w", page, err)
		}
		return feed.PageResult{Items: []feed.Item{}, End: true}, nil
	}

	items := make([]feed.Item, len(records))
	for i, r := range records {
		items[i] = feed.Item{ID: r.ID}
	}
	return feed.PageResult{Items: items}, nil
}
