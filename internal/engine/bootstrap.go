package engine

import "context"

// DefaultRoomNames are the rooms seeded on a fresh registry.
func DefaultRoomNames() []string {
	return []string{
		"Mathematics",
		"History",
		"Philosophy",
		"Information Technology",
		"Foreign Languages",
	}
}

// Bootstrap seeds the registry with the default rooms, each populated
// with numbered workspaces up to the configured capacity. Rooms that
// already exist are left alone so a restart over a persistence-backed
// registry stays idempotent. The engine's own prepopulation setting
// only governs rooms created afterwards.
func (e *Engine) Bootstrap(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		names = DefaultRoomNames()
	}

	for _, name := range names {
		if _, ok := e.registry.Get(name); ok {
			continue
		}
		if err := e.createRoom(ctx, name, true); err != nil {
			return err
		}
	}
	return nil
}
