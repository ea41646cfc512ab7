// Package cache stores generated artifacts keyed by the attributes that
// produced them.
//
// Logos are deterministic, so a cached logo never goes stale while the render
// revision and compressor stay the same; the cache only saves CPU. Banners
// are expensive, non-deterministic AI images, and their URLs are cached per
// token address for [TTLBanner].
//
// Backends:
//   - [FileCache]: JSON files under a directory, for the CLI
//   - [RedisCache]: shared cache for server deployments
//   - [NewNullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// Default time-to-live values per artifact kind.
const (
	// TTLLogo is how long generated PNGs stay cached.
	TTLLogo = 30 * 24 * time.Hour

	// TTLBanner is how long resolved banner URLs stay cached (90 days).
	TTLBanner = 90 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiration.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored value and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// nullCache drops every write and misses every read.
type nullCache struct{}

// NewNullCache returns a cache that stores nothing. The CLI uses it for
// --no-cache and when the file cache directory is unusable.
func NewNullCache() Cache { return nullCache{} }

func (nullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (nullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (nullCache) Delete(context.Context, string) error                     { return nil }
func (nullCache) Close() error                                             { return nil }
