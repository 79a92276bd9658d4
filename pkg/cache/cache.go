// Package cache stores extraction results keyed by input and option
// fingerprint, with TTL-based expiry. Backings are pluggable; a stale read is
// always equivalent to a miss.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/clipmark/article-extractor/models"
)

// Cache is the contract shared by all backings. Methods take a context so a
// persistent backing can do I/O.
type Cache interface {
	Get(ctx context.Context, key string) (*models.ExtractedContent, bool, error)
	Set(ctx context.Context, key string, content *models.ExtractedContent, ttl time.Duration) error
	Has(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Size(ctx context.Context) (int, error)
}

// Key derives a cache key from the normalized input and every option field
// that affects output, including the selector and class lists. Options that
// only steer runtime behavior (concurrency, callbacks, TTL) are deliberately
// excluded.
func Key(input string, opts models.ExtractionOptions) string {
	fingerprint := fmt.Sprintf("%s|%d|%t|%t|%t|%t|%t|%s|%s",
		strings.TrimSpace(input),
		opts.MinContentLength,
		opts.Aggressive,
		opts.PreserveComments,
		opts.PreserveRelated,
		opts.RemoveRecommendations,
		opts.PlainText,
		strings.Join(opts.RemoveSelectors, ","),
		strings.Join(opts.PreserveClasses, ","),
	)
	sum := sha256.Sum256([]byte(fingerprint))
	return hex.EncodeToString(sum[:])
}
