package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/nexusmart/storefront-gateway/internal/session"
	pkgerrors "github.com/nexusmart/storefront-gateway/pkg/errors"
)

// Fetcher pulls the current listing set from the inventory service.
type Fetcher interface {
	FetchInventory(ctx context.Context, token string) ([]Product, error)
}

// Cache holds the last successfully fetched listing set plus an
// inventoryId index for O(1) lookups. Refresh replaces both atomically;
// a failed refresh leaves the previous snapshot untouched. Freshness is
// last-successful-call; there is no background sync and no retry.
type Cache struct {
	fetcher Fetcher

	mu       sync.RWMutex
	products []Product
	index    map[string]Product
}

// NewCache builds an empty catalog cache over the given fetcher.
func NewCache(fetcher Fetcher) (*Cache, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("inventory fetcher required")
	}
	return &Cache{
		fetcher: fetcher,
		index:   map[string]Product{},
	}, nil
}

// Refresh fetches the listing set and swaps the cached snapshot on
// success. Any failure (network, bad status, malformed body) is returned
// as a fetch error and the prior snapshot stays visible to readers.
func (c *Cache) Refresh(ctx context.Context, sess session.Session) ([]Product, error) {
	if sess.Token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "catalog refresh requires an authenticated session")
	}

	products, err := c.fetcher.FetchInventory(ctx, sess.Token)
	if err != nil {
		return nil, err
	}

	index := make(map[string]Product, len(products))
	for _, p := range products {
		index[p.InventoryID] = p
	}

	c.mu.Lock()
	c.products = products
	c.index = index
	c.mu.Unlock()

	return c.Snapshot(), nil
}

// Snapshot returns a copy of the cached listing set.
func (c *Cache) Snapshot() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Lookup resolves a listing by its inventoryId.
func (c *Cache) Lookup(inventoryID string) (Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.index[inventoryID]
	return p, ok
}

// Len reports the cached listing count.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products)
}
