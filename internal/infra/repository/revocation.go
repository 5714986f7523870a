package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/zeebo/xxh3"
)

// RevocationRepository keeps blacklisted tokens in redis, fronted by an
// optional shared memcached layer and an in-process cache. Only revoked
// entries are cached: a revocation never reverses, so a cached hit cannot
// go stale. Misses always fall through to redis.
type RevocationRepository struct {
	rdb   *redis.Client
	mc    *memcache.Client
	local *gocache.Cache
}

func NewRevocationRepository(rdb *redis.Client, mc *memcache.Client) *RevocationRepository {
	return &RevocationRepository{
		rdb:   rdb,
		mc:    mc,
		local: gocache.New(10*time.Minute, 15*time.Minute),
	}
}

// revocationKey derives the storage key from the token. Raw bearer tokens
// never land verbatim in redis or memcached.
func revocationKey(token string) string {
	sum := xxh3.Hash128([]byte(token))
	return fmt.Sprintf("revoked:%016x%016x", sum.Hi, sum.Lo)
}

// Record is idempotent; re-recording a token just refreshes its entry.
func (r *RevocationRepository) Record(ctx context.Context, token string, ttl time.Duration) error {
	key := revocationKey(token)

	err := r.rdb.Set(ctx, key, "1", ttl).Err()
	if err != nil {
		return errors.Wrap(err, "failed to record revocation")
	}

	r.local.Set(key, true, ttl)

	if r.mc != nil {
		// Best effort; redis stays authoritative.
		_ = r.mc.Set(&memcache.Item{
			Key:        key,
			Value:      []byte("1"),
			Expiration: ttlSeconds(ttl),
		})
	}

	return nil
}

func (r *RevocationRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	key := revocationKey(token)

	if _, found := r.local.Get(key); found {
		return true, nil
	}

	if r.mc != nil {
		_, err := r.mc.Get(key)
		if err == nil {
			r.local.Set(key, true, gocache.DefaultExpiration)
			return true, nil
		}
	}

	n, err := r.rdb.Exists(ctx, key).Result()
	if err != nil {
		// Never degrade to "not revoked" on a registry fault.
		return false, errors.Wrap(err, "failed to query revocation registry")
	}
	if n > 0 {
		r.local.Set(key, true, gocache.DefaultExpiration)
		return true, nil
	}

	return false, nil
}

func ttlSeconds(ttl time.Duration) int32 {
	seconds := int32(ttl / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}
