package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Memartyes/y-lab-uni-sub000/internal/events"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func bookingEvent(id, room, user string) events.Event {
	return events.Event{
		ID:            id,
		Type:          events.TypeBookingCreated,
		Room:          room,
		WorkspaceID:   "1",
		UserID:        user,
		BookingRef:    "ref-" + id,
		BookingTime:   time.Date(2024, 7, 8, 10, 0, 0, 0, time.UTC),
		DurationHours: 1,
		OccurredAt:    time.Now().UTC(),
	}
}

func TestJournal_RecordAndQuery(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	require.NoError(t, j.Record(ctx, bookingEvent("e1", "Mathematics", "alice")))
	require.NoError(t, j.Record(ctx, bookingEvent("e2", "Mathematics", "bob")))
	require.NoError(t, j.Record(ctx, bookingEvent("e3", "History", "alice")))

	t.Run("room history", func(t *testing.T) {
		entries, err := j.RoomHistory(ctx, "Mathematics", 10)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("user history", func(t *testing.T) {
		entries, err := j.UserHistory(ctx, "alice", 10)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "alice", entries[0].UserID)
	})

	t.Run("count by type", func(t *testing.T) {
		count, err := j.CountByType(ctx, events.TypeBookingCreated)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("duplicate event id is ignored", func(t *testing.T) {
		require.NoError(t, j.Record(ctx, bookingEvent("e1", "Mathematics", "alice")))
		count, err := j.CountByType(ctx, events.TypeBookingCreated)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})
}

func TestJournal_AttachRecordsBusEvents(t *testing.T) {
	j := openTestJournal(t)
	bus := events.NewBus()
	j.Attach(bus)

	ctx := context.Background()
	bus.Publish(ctx, events.Event{Type: events.TypeRoomCreated, Room: "Philosophy"})
	bus.Publish(ctx, bookingEvent("", "Philosophy", "carol"))

	entries, err := j.RoomHistory(ctx, "Philosophy", 10)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
