// Package cache provides a Redis-backed cache for availability-slot
// queries, invalidated by booking events.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Memartyes/y-lab-uni-sub000/internal/events"
)

// SlotCache stores GetAvailableSlots results under slots:<room>:<date>.
// All failures degrade to cache misses; the engine is always consulted
// when Redis is unreachable.
type SlotCache struct {
	rdb *redis.Client
	ttl time.Duration
	log zerolog.Logger
}

// New builds a slot cache. A non-positive ttl disables caching.
func New(rdb *redis.Client, ttl time.Duration, logger *zerolog.Logger) *SlotCache {
	log := zerolog.Nop()
	if logger != nil {
		log = *logger
	}
	return &SlotCache{rdb: rdb, ttl: ttl, log: log}
}

func (c *SlotCache) enabled() bool {
	return c != nil && c.rdb != nil && c.ttl > 0
}

// Get returns cached slots for the room/date, and whether a value was found.
func (c *SlotCache) Get(ctx context.Context, roomName, date string) ([]string, bool) {
	if !c.enabled() {
		return nil, false
	}
	val, err := c.rdb.Get(ctx, key(roomName, date)).Result()
	if err != nil {
		return nil, false
	}
	var slots []string
	if err := json.Unmarshal([]byte(val), &slots); err != nil {
		return nil, false
	}
	return slots, true
}

// Set stores slots for the room/date with the configured TTL.
func (c *SlotCache) Set(ctx context.Context, roomName, date string, slots []string) {
	if !c.enabled() {
		return
	}
	data, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key(roomName, date), data, c.ttl).Err(); err != nil {
		c.log.Debug().Err(err).Str("room", roomName).Msg("slot cache write failed")
	}
}

// Invalidate drops every cached date for the room.
func (c *SlotCache) Invalidate(ctx context.Context, roomName string) {
	if !c.enabled() {
		return
	}
	iter := c.rdb.Scan(ctx, 0, key(roomName, "*"), 0).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			c.log.Debug().Err(err).Str("key", iter.Val()).Msg("slot cache delete failed")
		}
	}
	if err := iter.Err(); err != nil {
		c.log.Debug().Err(err).Str("room", roomName).Msg("slot cache scan failed")
	}
}

// Attach subscribes cache invalidation to booking and room lifecycle
// events on the bus.
func (c *SlotCache) Attach(bus *events.Bus) {
	handler := func(ctx context.Context, evt events.Event) error {
		c.Invalidate(ctx, evt.Room)
		if evt.NewRoom != "" {
			c.Invalidate(ctx, evt.NewRoom)
		}
		return nil
	}
	bus.Subscribe(events.TypeBookingCreated, handler)
	bus.Subscribe(events.TypeBookingCancelled, handler)
	bus.Subscribe(events.TypeRoomRenamed, handler)
	bus.Subscribe(events.TypeRoomDeleted, handler)
}

func key(roomName, date string) string {
	return fmt.Sprintf("slots:%s:%s", roomName, date)
}
