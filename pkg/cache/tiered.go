package cache

import (
	"context"
	"time"

	"github.com/clipmark/article-extractor/models"
)

// Tiered chains a fast in-memory layer in front of a persistent one. Hits in
// the persistent layer are promoted into memory.
type Tiered struct {
	front      *Memory
	back       Cache
	promoteTTL time.Duration
}

// NewTiered builds a tiered cache. promoteTTL bounds how long a promoted
// entry may live in memory; zero applies the default TTL.
func NewTiered(back Cache, promoteTTL time.Duration) *Tiered {
	if promoteTTL <= 0 {
		promoteTTL = models.DefaultCacheTTL
	}
	return &Tiered{
		front:      NewMemory(),
		back:       back,
		promoteTTL: promoteTTL,
	}
}

func (t *Tiered) Get(ctx context.Context, key string) (*models.ExtractedContent, bool, error) {
	if content, ok, err := t.front.Get(ctx, key); err == nil && ok {
		return content, true, nil
	}
	content, ok, err := t.back.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	_ = t.front.Set(ctx, key, content, t.promoteTTL)
	return content, true, nil
}

func (t *Tiered) Set(ctx context.Context, key string, content *models.ExtractedContent, ttl time.Duration) error {
	_ = t.front.Set(ctx, key, content, ttl)
	return t.back.Set(ctx, key, content, ttl)
}

func (t *Tiered) Has(ctx context.Context, key string) (bool, error) {
	_, ok, err := t.Get(ctx, key)
	return ok, err
}

func (t *Tiered) Delete(ctx context.Context, key string) error {
	_ = t.front.Delete(ctx, key)
	return t.back.Delete(ctx, key)
}

func (t *Tiered) Clear(ctx context.Context) error {
	_ = t.front.Clear(ctx)
	return t.back.Clear(ctx)
}

func (t *Tiered) Size(ctx context.Context) (int, error) {
	return t.back.Size(ctx)
}
