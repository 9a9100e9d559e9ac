package imagecache

import (
	"context"
	"time"
)

// Searcher mirrors the image lookup the cache wraps.
type Searcher interface {
	SearchImageURL(ctx context.Context, supplementName string) (string, error)
}

// Store is a TTL key/value cache for resolved image URLs.
type Store interface {
	GetURL(ctx context.Context, supplementName string) (string, bool, error)
	SetURL(ctx context.Context, supplementName, url string, ttl time.Duration) error
}

// CachedSearcher serves image lookups from the store before hitting the
// search API. Recommended products repeat heavily across users, so even a
// short TTL removes most external calls. Cache errors are ignored; the
// lookup itself stays best effort.
type CachedSearcher struct {
	next  Searcher
	store Store
	ttl   time.Duration
}

// NewCachedSearcher wraps a searcher with the given store.
func NewCachedSearcher(next Searcher, store Store, ttl time.Duration) *CachedSearcher {
	return &CachedSearcher{next: next, store: store, ttl: ttl}
}

// SearchImageURL implements Searcher.
func (c *CachedSearcher) SearchImageURL(ctx context.Context, supplementName string) (string, error) {
	if url, ok, err := c.store.GetURL(ctx, supplementName); err == nil && ok {
		return url, nil
	}
	url, err := c.next.SearchImageURL(ctx, supplementName)
	if err != nil {
		return "", err
	}
	if url != "" {
		_ = c.store.SetURL(ctx, supplementName, url, c.ttl)
	}
	return url, nil
}
