package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"time"
)

// GenerateCacheKey creates a cache key from prefix and params
func GenerateCacheKey(prefix string, params ...interface{}) string {
	if len(params) == 0 {
		return prefix
	}

	data, _ := json.Marshal(params)
	hash := md5.Sum(data)
	return prefix + ":" + hex.EncodeToString(hash[:])
}

// GetJSON retrieves a cached value and unmarshals it into dest. Returns false
// on a miss or any decode error.
func (r *Redis) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	raw, err := r.Get(ctx, key)
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(raw), dest) == nil
}

// SetJSON marshals value and stores it with the given TTL. Cache write
// failures are ignored; the source of truth is the database.
func (r *Redis) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = r.Set(ctx, key, data, ttl)
}
