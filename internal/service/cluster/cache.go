package cluster

import (
	"sync"

	"github.com/sandevgo/moodmem/internal/service/similarity"
)

// FeatureCache keeps extracted features of clustered memories between
// worker batches so members are not reloaded and re-extracted every tick.
type FeatureCache struct {
	mu       sync.RWMutex
	features map[string]similarity.Featured
}

func NewFeatureCache() *FeatureCache {
	return &FeatureCache{
		features: make(map[string]similarity.Featured),
	}
}

func (c *FeatureCache) Get(memoryID string) (similarity.Featured, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, ok := c.features[memoryID]
	return f, ok
}

func (c *FeatureCache) Put(f similarity.Featured) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.features[f.Memory.ID] = f
}

// Invalidate drops the given memories, or everything when called without ids.
func (c *FeatureCache) Invalidate(memoryIDs ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(memoryIDs) == 0 {
		c.features = make(map[string]similarity.Featured)
		return
	}
	for _, id := range memoryIDs {
		delete(c.features, id)
	}
}

func (c *FeatureCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.features)
}
