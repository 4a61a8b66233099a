// Package llmcache caches chat completions in the key-value store so that
// the same elaboration request is billed once.
package llmcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/thesisrec/internal/db"
	"github.com/kailas-cloud/thesisrec/internal/domain"
)

// store is the consumer interface for the completion cache.
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// CachedNarrator is a domain.Narrator decorator.
type CachedNarrator struct {
	inner      domain.Narrator
	store      store
	prefix     string
	model      string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator. The model is part of the cache key;
// cacheTotal has a "result" label ("hit"/"miss") and may be nil.
func New(
	inner domain.Narrator,
	s store,
	prefix, model string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedNarrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedNarrator{
		inner:      inner,
		store:      s,
		prefix:     prefix,
		model:      model,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Complete returns a cached completion or calls the inner narrator.
// A hit reports zero tokens: nothing was billed.
func (c *CachedNarrator) Complete(ctx context.Context, p domain.Prompt) (domain.Completion, error) {
	key := c.cacheKey(p)

	if text, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return domain.Completion{Text: text}, nil
	}
	c.incCache("miss")

	res, err := c.inner.Complete(ctx, p)
	if err != nil {
		return domain.Completion{}, fmt.Errorf("complete: %w", err)
	}

	c.putToCache(ctx, key, res.Text)
	return res, nil
}

func (c *CachedNarrator) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedNarrator) cacheKey(p domain.Prompt) string {
	h := sha256.New()
	h.Write([]byte(c.model))
	h.Write([]byte{0})
	h.Write([]byte(p.System))
	h.Write([]byte{0})
	h.Write([]byte(p.User))
	return c.prefix + "llm_cache:" + hex.EncodeToString(h.Sum(nil))
}

func (c *CachedNarrator) getFromCache(ctx context.Context, key string) (string, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached completion", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	if len(data) == 0 {
		return "", false
	}
	return string(data), true
}

func (c *CachedNarrator) putToCache(ctx context.Context, key, text string) {
	if text == "" {
		return
	}
	if err := c.store.Set(ctx, key, []byte(text)); err != nil {
		c.logger.Warn("Failed to cache completion", zap.String("key", key), zap.Error(err))
		return
	}
	if c.ttl <= 0 {
		return
	}
	if err := c.store.Expire(ctx, key, c.ttl, false); err != nil {
		c.logger.Warn("Failed to set completion cache TTL", zap.String("key", key), zap.Error(err))
	}
}
