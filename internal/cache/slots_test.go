package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Memartyes/y-lab-uni-sub000/internal/events"
)

func newTestCache(t *testing.T) (*SlotCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(rdb, time.Minute, nil), mr
}

func TestSlotCache_GetSet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_, ok := c.Get(ctx, "room1", "2024-07-08")
	assert.False(t, ok, "empty cache misses")

	slots := []string{"08:00", "09:00", "11:00"}
	c.Set(ctx, "room1", "2024-07-08", slots)

	got, ok := c.Get(ctx, "room1", "2024-07-08")
	require.True(t, ok)
	assert.Equal(t, slots, got)

	_, ok = c.Get(ctx, "room1", "2024-07-09")
	assert.False(t, ok, "different date is a different key")
}

func TestSlotCache_Invalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "room1", "2024-07-08", []string{"08:00"})
	c.Set(ctx, "room1", "2024-07-09", []string{"09:00"})
	c.Set(ctx, "room2", "2024-07-08", []string{"10:00"})

	c.Invalidate(ctx, "room1")

	_, ok := c.Get(ctx, "room1", "2024-07-08")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "room1", "2024-07-09")
	assert.False(t, ok)

	got, ok := c.Get(ctx, "room2", "2024-07-08")
	assert.True(t, ok, "other rooms keep their entries")
	assert.Equal(t, []string{"10:00"}, got)
}

func TestSlotCache_AttachInvalidatesOnEvents(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	bus := events.NewBus()
	c.Attach(bus)

	c.Set(ctx, "room1", "2024-07-08", []string{"08:00"})
	bus.Publish(ctx, events.Event{Type: events.TypeBookingCreated, Room: "room1"})

	_, ok := c.Get(ctx, "room1", "2024-07-08")
	assert.False(t, ok)
}

func TestSlotCache_DisabledIsNoop(t *testing.T) {
	ctx := context.Background()

	var nilCache *SlotCache
	_, ok := nilCache.Get(ctx, "room1", "2024-07-08")
	assert.False(t, ok)
	nilCache.Set(ctx, "room1", "2024-07-08", []string{"08:00"})

	zeroTTL := New(redis.NewClient(&redis.Options{Addr: "localhost:0"}), 0, nil)
	zeroTTL.Set(ctx, "room1", "2024-07-08", []string{"08:00"})
	_, ok = zeroTTL.Get(ctx, "room1", "2024-07-08")
	assert.False(t, ok)
}
