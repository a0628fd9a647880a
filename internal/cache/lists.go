package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lists caches small read-mostly blog aggregates (the category and tag
// vocabularies). Misses and redis failures fall through to the database; the
// cache is never authoritative.
type Lists struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLists(client *redis.Client, ttl time.Duration) *Lists {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Lists{client: client, ttl: ttl}
}

const (
	KeyCategories = "blog:categories"
	KeyTags       = "blog:tags"
)

// Get loads a cached string slice. ok is false on miss, decode failure, a
// nil client or any redis error.
func (l *Lists) Get(ctx context.Context, key string) ([]string, bool) {
	if l == nil || l.client == nil {
		return nil, false
	}

	raw, err := l.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, false
	}
	return values, true
}

func (l *Lists) Set(ctx context.Context, key string, values []string) {
	if l == nil || l.client == nil {
		return
	}

	raw, err := json.Marshal(values)
	if err != nil {
		return
	}
	l.client.Set(ctx, key, raw, l.ttl)
}

// Invalidate drops the cached aggregates. Called after every post write so
// new categories and tags show up immediately.
func (l *Lists) Invalidate(ctx context.Context) {
	if l == nil || l.client == nil {
		return
	}
	l.client.Del(ctx, KeyCategories, KeyTags)
}
