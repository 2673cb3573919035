// Package cached wraps a stockapi.Client so barcode lookups are served from a
// cache.Cache while fresh. Only lookups returning a product are cached.
package cached

import (
	"context"
	"encoding/json"
	"errors"
	"stockscan/pkg/cache"
	"stockscan/pkg/domain"
	"stockscan/pkg/logger"
	"stockscan/pkg/stockapi"
	"time"

	"go.uber.org/zap"
)

const keyPrefix = "barcode:"

// Client decorates a stockapi.Client with a lookup cache. All other calls go
// straight to the wrapped client.
type Client struct {
	stockapi.Client

	cache cache.Cache
	ttl   time.Duration
}

// New wraps next with c. Entries live for ttl.
func New(next stockapi.Client, c cache.Cache, ttl time.Duration) *Client {
	return &Client{Client: next, cache: c, ttl: ttl}
}

// LookupBarcode returns the cached product when present, otherwise asks the
// wrapped client and stores the answer. Cache failures are logged and
// otherwise ignored.
func (c *Client) LookupBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	key := keyPrefix + barcode

	b, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		var p *domain.Product
		if err := json.Unmarshal(b, &p); err == nil && p != nil {
			logger.Debug(ctx, "lookup served from cache", zap.String("barcode", barcode))

			return p, nil
		}
		// unreadable or null entries are misses
		_ = c.cache.Delete(ctx, key)
	case !errors.Is(err, cache.ErrCacheMiss):
		logger.Warn(ctx, "could not read lookup cache", zap.String("barcode", barcode), zap.Error(err))
	}

	p, err := c.Client.LookupBarcode(ctx, barcode)
	if err != nil || p == nil {
		return p, err
	}

	if b, err := json.Marshal(p); err == nil {
		if err := c.cache.Set(ctx, key, b, c.ttl); err != nil {
			logger.Warn(ctx, "could not write lookup cache", zap.String("barcode", barcode), zap.Error(err))
		}
	}

	return p, nil
}

var _ stockapi.Client = (*Client)(nil)
