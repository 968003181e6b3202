package skyraster

import (
	"encoding/binary"
	"hash/fnv"
	"slices"
	"sync"

	"golang.org/x/exp/maps"
)

const DefaultMaxRasterizers = 16

type cacheKey struct {
	opts   RasterizerOptions
	digest uint64
}

type cacheEntry struct {
	addrs      []PixelAddress
	rasterizer *Rasterizer
}

// Keeps recently built rasterizers so that rendering the same addresses with
// the same options again skips construction. Construction through
// NewRasterizer stays available and is what the cache calls on a miss. Safe
// for concurrent use.
type RasterizerCache struct {
	maxEntries int
	entries    map[cacheKey]cacheEntry
	lock       sync.RWMutex
}

func NewRasterizerCache(maxEntries int) *RasterizerCache {
	if maxEntries < 1 {
		maxEntries = DefaultMaxRasterizers
	}
	return &RasterizerCache{
		maxEntries: maxEntries,
		entries:    map[cacheKey]cacheEntry{},
	}
}

// Returns the cached rasterizer for addrs and opts, building and caching it if
// there is none. When the cache is full an arbitrary entry is evicted.
func (c *RasterizerCache) Get(addrs []PixelAddress, opts RasterizerOptions) (*Rasterizer, error) {
	key := cacheKey{opts: opts, digest: digestAddresses(addrs)}

	c.lock.RLock()
	entry, ok := c.entries[key]
	c.lock.RUnlock()
	if ok && slices.Equal(entry.addrs, addrs) {
		return entry.rasterizer, nil
	}

	r, err := NewRasterizer(addrs, opts)
	if err != nil {
		return nil, err
	}

	c.lock.Lock()
	defer c.lock.Unlock()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		evicted := maps.Keys(c.entries)[0]
		delete(c.entries, evicted)
		Logger().Debug("evicted cached rasterizer", "projection", evicted.opts.Projection.String())
	}
	c.entries[key] = cacheEntry{addrs: slices.Clone(addrs), rasterizer: r}
	return r, nil
}

// The number of cached rasterizers.
func (c *RasterizerCache) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return len(c.entries)
}

func (c *RasterizerCache) Clear() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.entries = map[cacheKey]cacheEntry{}
}

func digestAddresses(addrs []PixelAddress) uint64 {
	h := fnv.New64a()
	buf := make([]byte, 16)
	for _, a := range addrs {
		binary.BigEndian.PutUint64(buf, uint64(a.Nside))
		binary.BigEndian.PutUint64(buf[8:], uint64(a.Index))
		h.Write(buf)
	}
	return h.Sum64()
}
