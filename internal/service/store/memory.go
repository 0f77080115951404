package store

import (
	"sync"

	"churnradar/internal/model"
)

// Cache holds cleaned datasets keyed by source identity (file path or upload
// content hash). Datasets are immutable once stored; a key is only replaced
// when the same source is force-reloaded.
type Cache struct {
	mu       sync.RWMutex
	datasets map[string]*model.Dataset
	current  string
}

// NewCache creates an empty dataset cache.
func NewCache() *Cache {
	return &Cache{
		datasets: make(map[string]*model.Dataset),
	}
}

// Put stores a dataset under its source key and makes it current.
func (c *Cache) Put(ds *model.Dataset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.datasets[ds.SourceKey] = ds
	c.current = ds.SourceKey
}

// Get returns the dataset for a source key.
func (c *Cache) Get(sourceKey string) (*model.Dataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ds, ok := c.datasets[sourceKey]
	return ds, ok
}

// Current returns the most recently loaded dataset.
func (c *Cache) Current() (*model.Dataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == "" {
		return nil, false
	}
	ds, ok := c.datasets[c.current]
	return ds, ok
}

// Count returns how many datasets are cached.
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.datasets)
}

// Clear drops every cached dataset.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.datasets = make(map[string]*model.Dataset)
	c.current = ""
}
