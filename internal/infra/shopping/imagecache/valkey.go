package imagecache

import (
	"context"
	"time"

	"github.com/valkey-io/valkey-go"
)

// ValkeyStore caches image URLs in a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "shopimg"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// GetURL implements Store.
func (s *ValkeyStore) GetURL(ctx context.Context, supplementName string) (string, bool, error) {
	cmd := s.client.B().Get().Key(s.key(supplementName)).Build()
	url, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return url, true, nil
}

// SetURL implements Store.
func (s *ValkeyStore) SetURL(ctx context.Context, supplementName, url string, ttl time.Duration) error {
	builder := s.client.B().Set().Key(s.key(supplementName)).Value(url)
	if ttl > 0 {
		return s.client.Do(ctx, builder.Ex(ttl).Build()).Error()
	}
	return s.client.Do(ctx, builder.Build()).Error()
}

func (s *ValkeyStore) key(supplementName string) string {
	return s.prefix + ":" + supplementName
}

var _ Store = (*ValkeyStore)(nil)
