// Package cache stores fetched take payloads in memory and on disk.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTL
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// TakeKey is the cache key for a permalinked take under an API origin
func TakeKey(baseURL string, takeID int64) string {
	hash := sha256.Sum256([]byte(baseURL))
	return "legm-v1-" + hex.EncodeToString(hash[:8]) + "-take-" + strconv.FormatInt(takeID, 10)
}
