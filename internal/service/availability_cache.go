package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"clinic-appointment-service/internal/domain/entity"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// Redis key prefix for per-date free-slot lists
	availabilityKeyPrefix = "availability:slots:"

	// Short TTL: the cache only absorbs picker traffic between ledger
	// writes; the partial unique index stays the source of truth.
	availabilityTTL = 60 * time.Second
)

// AvailabilityCache caches the free-slot list per calendar date in Redis.
// Every ledger write for a date invalidates that date's entry. Redis being
// down degrades to direct DB reads, it never fails a request.
type AvailabilityCache struct {
	redisClient *redis.Client
	log         *logrus.Logger
	ttl         time.Duration
}

func NewAvailabilityCache(redisClient *redis.Client, log *logrus.Logger) *AvailabilityCache {
	return &AvailabilityCache{
		redisClient: redisClient,
		log:         log,
		ttl:         availabilityTTL,
	}
}

// Get returns the cached free slots for date (YYYY-MM-DD) and whether the
// lookup hit. Redis errors count as a miss.
func (c *AvailabilityCache) Get(ctx context.Context, date string) ([]entity.TimeSlot, bool) {
	payload, err := c.redisClient.Get(ctx, availabilityKeyPrefix+date).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warnf("Availability cache read failed for %s (non-fatal): %+v", date, err)
		}
		return nil, false
	}

	var slots []entity.TimeSlot
	if err := json.Unmarshal(payload, &slots); err != nil {
		c.log.Warnf("Availability cache entry for %s is corrupt, dropping: %+v", date, err)
		c.Invalidate(ctx, date)
		return nil, false
	}
	return slots, true
}

// Set stores the free slots for date. Failures are logged and ignored.
func (c *AvailabilityCache) Set(ctx context.Context, date string, slots []entity.TimeSlot) {
	payload, err := json.Marshal(slots)
	if err != nil {
		c.log.Warnf("Failed to encode availability for %s: %+v", date, err)
		return
	}
	if err := c.redisClient.Set(ctx, availabilityKeyPrefix+date, payload, c.ttl).Err(); err != nil {
		c.log.Warnf("Availability cache write failed for %s (non-fatal): %+v", date, err)
	}
}

// Invalidate drops the cached entry for date. Failures are logged and
// ignored; the short TTL bounds staleness either way.
func (c *AvailabilityCache) Invalidate(ctx context.Context, date string) {
	if err := c.redisClient.Del(ctx, availabilityKeyPrefix+date).Err(); err != nil {
		c.log.Warnf("Availability cache invalidation failed for %s (non-fatal): %+v", date, err)
	}
}
