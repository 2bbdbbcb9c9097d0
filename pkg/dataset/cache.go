package dataset

import (
	"os"
	"sync"
)

// cacheKey ties a parsed table to the file revision it was read from. A
// rewritten file changes mtime or size and misses the cache, so re-reads
// happen without any manual step; Invalidate covers everything else.
type cacheKey struct {
	path  string
	tag   string // group id (env) or sheet name (growth)
	mtime int64
	size  int64
}

func statKey(path, tag string) (cacheKey, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return cacheKey{}, err
	}
	return cacheKey{path: path, tag: tag, mtime: fi.ModTime().UnixNano(), size: fi.Size()}, nil
}

type loadCache struct {
	mu     sync.RWMutex
	env    map[cacheKey]*EnvSeries
	growth map[cacheKey]*GrowthTable
}

func newLoadCache() *loadCache {
	return &loadCache{
		env:    make(map[cacheKey]*EnvSeries),
		growth: make(map[cacheKey]*GrowthTable),
	}
}

func (c *loadCache) getEnv(k cacheKey) (*EnvSeries, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.env[k]
	return s, ok
}

func (c *loadCache) putEnv(k cacheKey, s *EnvSeries) {
	c.mu.Lock()
	c.env[k] = s
	c.mu.Unlock()
}

func (c *loadCache) getGrowth(k cacheKey) (*GrowthTable, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.growth[k]
	return t, ok
}

func (c *loadCache) putGrowth(k cacheKey, t *GrowthTable) {
	c.mu.Lock()
	c.growth[k] = t
	c.mu.Unlock()
}

func (c *loadCache) clear() {
	c.mu.Lock()
	c.env = make(map[cacheKey]*EnvSeries)
	c.growth = make(map[cacheKey]*GrowthTable)
	c.mu.Unlock()
}
