// Package cache stores encoded synthesis artifacts keyed by their inputs.
//
// A synthesis is a pure function of (request, profile, seed, format), so its
// encoded image can be reused across runs. The CLI uses [FileCache] under the
// user cache directory; servers that share work across instances use
// [RedisCache]. [NullCache] disables caching.
//
// Keys come from a [Keyer] so callers never build key strings by hand:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ArtifactKey(cache.ArtifactKeyOpts{
//	    RequestHash: cache.HashJSON(req),
//	    Condition:   "noisy",
//	    ProfileHash: cache.HashJSON(profile),
//	    Seed:        7,
//	    Format:      "png",
//	})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// TTLArtifact is the lifetime of a cached synthesis artifact.
const TTLArtifact = 30 * 24 * time.Hour

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}
