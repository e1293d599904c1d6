package settings

import (
	"context"
	"fmt"
	"sync"

	"github.com/corymhall/lintlsp/lsp"
	"github.com/corymhall/lintlsp/xcontext"
	"github.com/pulumi/pulumi/sdk/v3/go/common/util/contract"
	"golang.org/x/sync/singleflight"
)

// Cache memoizes a Resolver per document URI. Concurrent lookups for the same
// URI share one call to the resolver. Failed lookups are not cached.
type Cache struct {
	resolve Resolver
	group   singleflight.Group

	mu      sync.Mutex
	entries map[lsp.DocumentURI]Settings
	// gen is bumped by Clear and docGen[uri] by Delete, so lookups that
	// started earlier do not repopulate the cache with stale settings.
	gen    uint64
	docGen map[lsp.DocumentURI]uint64
}

func NewCache(resolve Resolver) *Cache {
	contract.Assertf(resolve != nil, "settings cache needs a resolver")
	return &Cache{
		resolve: resolve,
		entries: make(map[lsp.DocumentURI]Settings),
		docGen:  make(map[lsp.DocumentURI]uint64),
	}
}

// Get returns the settings for uri, resolving them on first use.
func (c *Cache) Get(ctx context.Context, uri lsp.DocumentURI) (Settings, error) {
	c.mu.Lock()
	if s, ok := c.entries[uri]; ok {
		c.mu.Unlock()
		return s, nil
	}
	gen, docGen := c.gen, c.docGen[uri]
	c.mu.Unlock()

	key := fmt.Sprintf("%d/%d/%s", gen, docGen, uri)
	ch := c.group.DoChan(key, func() (any, error) {
		// the shared lookup must not die with whichever caller started it
		s, err := c.resolve(xcontext.Detach(ctx), uri)
		if err != nil {
			return Settings{}, err
		}
		c.mu.Lock()
		if c.gen == gen && c.docGen[uri] == docGen {
			c.entries[uri] = s
		}
		c.mu.Unlock()
		return s, nil
	})
	select {
	case <-ctx.Done():
		return Settings{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Settings{}, res.Err
		}
		return res.Val.(Settings), nil
	}
}

// Delete forgets the settings of one document.
func (c *Cache) Delete(uri lsp.DocumentURI) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docGen[uri]++
	delete(c.entries, uri)
}

// Clear forgets every document's settings.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	clear(c.entries)
	clear(c.docGen)
}

// Len returns the number of cached documents.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
