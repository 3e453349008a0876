package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Memartyes/y-lab-uni-sub000/internal/calendar"
	"github.com/Memartyes/y-lab-uni-sub000/internal/room"
)

func TestMemoryRegistry(t *testing.T) {
	reg := NewMemoryRegistry()
	cal := calendar.Default()

	require.NoError(t, reg.Insert("room1", room.New("room1", 0, cal)))

	t.Run("duplicate insert fails", func(t *testing.T) {
		assert.ErrorIs(t, reg.Insert("room1", room.New("room1", 0, cal)), ErrRoomExists)
	})

	t.Run("rename to taken name fails", func(t *testing.T) {
		require.NoError(t, reg.Insert("room2", room.New("room2", 0, cal)))
		assert.ErrorIs(t, reg.Rename("room2", "room1"), ErrRoomExists)
		require.NoError(t, reg.Delete("room2"))
	})
}

func TestMemoryRegistry_ConcurrentRenameAndLookup(t *testing.T) {
	reg := NewMemoryRegistry()
	require.NoError(t, reg.Insert("a", room.New("a", 0, calendar.Default())))

	done := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(done)
		for i := 0; i < 200; i++ {
			_ = reg.Rename("a", "b")
			_ = reg.Rename("b", "a")
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			_, okA := reg.Get("a")
			_, okB := reg.Get("b")
			// Rename re-keys atomically, so a lookup can never see
			// the room under both names at once.
			assert.False(t, okA && okB, "room visible under old and new name")
		}
	}()

	wg.Wait()

	r, ok := reg.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", r.Name())
	assert.Len(t, reg.List(), 1)
}
