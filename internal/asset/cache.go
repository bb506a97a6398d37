package asset

import (
	"context"
	"image"
	"net/http"
	"sync"
	"time"
)

// DefaultTimeout bounds one remote fetch.
const DefaultTimeout = 15 * time.Second

// Cache is a concurrency-safe Loader that keeps decoded images by
// reference. Failed loads are not cached, so a retry fetches again.
type Cache struct {
	mu     sync.RWMutex
	items  map[string]*image.NRGBA
	client *http.Client
	root   string

	// MinComponent, when positive, despeckles decoded images: visible
	// groups smaller than this fraction of the visible pixels are cleared.
	MinComponent float64
}

// NewCache creates a cache resolving relative paths against root. A nil
// client gets one with DefaultTimeout.
func NewCache(client *http.Client, root string) *Cache {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Cache{
		items:  make(map[string]*image.NRGBA),
		client: client,
		root:   root,
	}
}

// Load implements Loader. The returned image is shared; callers must not
// modify it.
func (c *Cache) Load(ctx context.Context, ref string) (*image.NRGBA, error) {
	// Fast path: read lock
	c.mu.RLock()
	if img, ok := c.items[ref]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	// Slow path: fetch and decode
	raw, err := Fetch(ctx, c.client, c.root, ref)
	if err != nil {
		return nil, &LoadError{Ref: ref, Err: err}
	}
	img, err := Decode(raw)
	if err != nil {
		return nil, &LoadError{Ref: ref, Err: err}
	}
	if c.MinComponent > 0 {
		img, _ = Despeckle(img, c.MinComponent)
	}

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.items[ref]; ok {
		return existing, nil
	}
	c.items[ref] = img
	return img, nil
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
