package cache

import "time"

// LayeredCache checks layers fastest-first and promotes hits into the faster layers
type LayeredCache struct {
	layers []Cache
}

// NewLayeredCache stacks the given layers, fastest first
func NewLayeredCache(layers ...Cache) *LayeredCache {
	return &LayeredCache{layers: layers}
}

// NewMemoryDiskCache is the usual memory-over-disk stack
func NewMemoryDiskCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return NewLayeredCache(
		NewMemoryCache(memoryTTL, 10*time.Minute),
		NewDiskCache(diskDir, diskTTL),
	)
}

func (c *LayeredCache) Get(key string) ([]byte, bool) {
	for i, layer := range c.layers {
		val, found := layer.Get(key)
		if !found {
			continue
		}
		for _, faster := range c.layers[:i] {
			_ = faster.Set(key, val, 0)
		}
		return val, true
	}
	return nil, false
}

// Set writes every layer and reports the first failure
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	for _, layer := range c.layers {
		if err := layer.Set(key, value, ttl); err != nil {
			return err
		}
	}
	return nil
}

func (c *LayeredCache) Delete(key string) error {
	var first error
	for _, layer := range c.layers {
		if err := layer.Delete(key); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (c *LayeredCache) Clear() error {
	var first error
	for _, layer := range c.layers {
		if err := layer.Clear(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
