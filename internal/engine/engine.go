// Package engine orchestrates room lookup, conflict checking, and the
// booking API surface shared by every front-end.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Memartyes/y-lab-uni-sub000/internal/calendar"
	"github.com/Memartyes/y-lab-uni-sub000/internal/events"
	"github.com/Memartyes/y-lab-uni-sub000/internal/room"
)

// DefaultWorkspaceCapacity is the per-room workspace count used when
// the configuration does not override it.
const DefaultWorkspaceCapacity = 8

// Options configures an Engine. Zero-value fields fall back to the
// defaults noted on each field.
type Options struct {
	// Calendar defines working days/hours; zero value means Default().
	Calendar calendar.Calendar
	// WorkspaceCapacity bounds each room and sizes pre-population.
	WorkspaceCapacity int
	// PrepopulateNewRooms seeds every created room with numbered
	// workspaces "1"..capacity.
	PrepopulateNewRooms bool
	// Registry defaults to the in-memory implementation.
	Registry Registry
	// Bus receives lifecycle events; nil disables publication.
	Bus *events.Bus
	// Logger defaults to a no-op logger.
	Logger *zerolog.Logger
	// Now defaults to time.Now; tests inject a fixed clock.
	Now func() time.Time
}

// Engine owns the room registry and exposes the booking operations.
type Engine struct {
	cal         calendar.Calendar
	capacity    int
	prepopulate bool
	registry    Registry
	bus         *events.Bus
	log         zerolog.Logger
	now         func() time.Time
}

// New builds an engine from options.
func New(opts Options) *Engine {
	cal := opts.Calendar
	if cal.IsZero() {
		cal = calendar.Default()
	}
	capacity := opts.WorkspaceCapacity
	if capacity <= 0 {
		capacity = DefaultWorkspaceCapacity
	}
	registry := opts.Registry
	if registry == nil {
		registry = NewMemoryRegistry()
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		cal:         cal,
		capacity:    capacity,
		prepopulate: opts.PrepopulateNewRooms,
		registry:    registry,
		bus:         opts.Bus,
		log:         log,
		now:         now,
	}
}

// Calendar returns the working calendar the engine enforces.
func (e *Engine) Calendar() calendar.Calendar {
	return e.cal
}

// Now returns the engine's current instant; expiry display uses it.
func (e *Engine) Now() time.Time {
	return e.now()
}

// CreateRoom inserts a new room under the name. When the engine is
// configured to pre-populate, the room starts with numbered workspaces.
func (e *Engine) CreateRoom(ctx context.Context, name string) error {
	return e.createRoom(ctx, name, e.prepopulate)
}

func (e *Engine) createRoom(ctx context.Context, name string, prepopulate bool) error {
	if name == "" {
		return ErrIDRequired
	}

	r := room.New(name, e.capacity, e.cal)
	if prepopulate {
		for i := 1; i <= e.capacity; i++ {
			if err := r.AddWorkspace(fmt.Sprintf("%d", i)); err != nil {
				return fmt.Errorf("prepopulate room %q: %w", name, err)
			}
		}
	}
	if err := e.registry.Insert(name, r); err != nil {
		return err
	}

	e.log.Info().Str("room", name).Msg("conference room created")
	e.publish(ctx, events.Event{Type: events.TypeRoomCreated, Room: name})
	return nil
}

// RenameRoom atomically re-keys a registry entry.
func (e *Engine) RenameRoom(ctx context.Context, oldName, newName string) error {
	if oldName == "" || newName == "" {
		return ErrIDRequired
	}
	if err := e.registry.Rename(oldName, newName); err != nil {
		return err
	}

	e.log.Info().Str("room", oldName).Str("new_name", newName).Msg("conference room renamed")
	e.publish(ctx, events.Event{Type: events.TypeRoomRenamed, Room: oldName, NewRoom: newName})
	return nil
}

// DeleteRoom removes a room and everything in it.
func (e *Engine) DeleteRoom(ctx context.Context, name string) error {
	if err := e.registry.Delete(name); err != nil {
		return err
	}

	e.log.Info().Str("room", name).Msg("conference room deleted")
	e.publish(ctx, events.Event{Type: events.TypeRoomDeleted, Room: name})
	return nil
}

// AddWorkspace registers a new workspace in the room.
func (e *Engine) AddWorkspace(ctx context.Context, roomName, workspaceID string) error {
	if workspaceID == "" {
		return ErrIDRequired
	}
	r, err := e.room(roomName)
	if err != nil {
		return err
	}
	if err := r.AddWorkspace(workspaceID); err != nil {
		return err
	}

	e.log.Info().Str("room", roomName).Str("workspace", workspaceID).Msg("workspace added")
	return nil
}

// BookWorkspace books one workspace at the instant. The room performs
// the availability check and the booking in a single critical section,
// so two concurrent bookers cannot both take the same slot.
func (e *Engine) BookWorkspace(ctx context.Context, roomName, workspaceID, userID string, at time.Time) (room.Booking, error) {
	r, err := e.room(roomName)
	if err != nil {
		return room.Booking{}, err
	}

	booking, err := r.BookWorkspace(workspaceID, userID, at)
	if err != nil {
		e.log.Warn().Err(err).
			Str("room", roomName).
			Str("workspace", workspaceID).
			Str("user", userID).
			Time("at", at).
			Msg("booking rejected")
		return room.Booking{}, err
	}

	e.log.Info().
		Str("room", roomName).
		Str("workspace", workspaceID).
		Str("user", userID).
		Str("ref", booking.Ref).
		Time("at", at).
		Msg("workspace booked")
	e.publishBooking(ctx, events.TypeBookingCreated, booking)
	return booking, nil
}

// BookAllWorkspaces books every currently free workspace in the room.
func (e *Engine) BookAllWorkspaces(ctx context.Context, roomName, userID string, at time.Time) ([]room.Booking, error) {
	r, err := e.room(roomName)
	if err != nil {
		return nil, err
	}

	bookings, err := r.BookAllWorkspaces(userID, at)
	if err != nil {
		e.log.Warn().Err(err).Str("room", roomName).Str("user", userID).Time("at", at).
			Msg("room booking rejected")
		return nil, err
	}

	e.log.Info().Str("room", roomName).Str("user", userID).Int("booked", len(bookings)).
		Msg("room workspaces booked")
	for _, b := range bookings {
		e.publishBooking(ctx, events.TypeBookingCreated, b)
	}
	return bookings, nil
}

// CancelWorkspaceBooking releases the booking on one workspace.
func (e *Engine) CancelWorkspaceBooking(ctx context.Context, roomName, workspaceID string) (room.Booking, error) {
	r, err := e.room(roomName)
	if err != nil {
		return room.Booking{}, err
	}

	cancelled, err := r.CancelWorkspace(workspaceID)
	if err != nil {
		return room.Booking{}, err
	}

	e.log.Info().Str("room", roomName).Str("workspace", workspaceID).Str("ref", cancelled.Ref).
		Msg("booking cancelled")
	e.publishBooking(ctx, events.TypeBookingCancelled, cancelled)
	return cancelled, nil
}

// CancelAllBookings releases every booked workspace in the room.
func (e *Engine) CancelAllBookings(ctx context.Context, roomName string) ([]room.Booking, error) {
	r, err := e.room(roomName)
	if err != nil {
		return nil, err
	}

	cancelled := r.CancelAllWorkspaces()
	e.log.Info().Str("room", roomName).Int("cancelled", len(cancelled)).
		Msg("room bookings cancelled")
	for _, b := range cancelled {
		e.publishBooking(ctx, events.TypeBookingCancelled, b)
	}
	return cancelled, nil
}

// AvailableSlots returns the free slot times for the room on a date.
func (e *Engine) AvailableSlots(ctx context.Context, roomName string, date time.Time) ([]string, error) {
	r, err := e.room(roomName)
	if err != nil {
		return nil, err
	}
	return r.AvailableSlots(date), nil
}

// MostAvailableRoom returns the room with the strictly greatest free
// workspace count. A room has to exceed zero to qualify, so a registry
// where every room is full reports no result even when rooms exist.
func (e *Engine) MostAvailableRoom(ctx context.Context) (*room.Room, bool) {
	var best *room.Room
	max := 0
	for _, r := range e.registry.List() {
		if count := r.AvailableWorkspaceCount(); count > max {
			best = r
			max = count
		}
	}
	return best, best != nil
}

// Room resolves one room by name.
func (e *Engine) Room(name string) (*room.Room, error) {
	return e.room(name)
}

// Rooms lists every registered room. Order is not guaranteed.
func (e *Engine) Rooms() []*room.Room {
	return e.registry.List()
}

func (e *Engine) room(name string) (*room.Room, error) {
	r, ok := e.registry.Get(name)
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

func (e *Engine) publish(ctx context.Context, event events.Event) {
	if e.bus == nil {
		return
	}
	e.bus.Publish(ctx, event)
}

func (e *Engine) publishBooking(ctx context.Context, typ events.Type, b room.Booking) {
	e.publish(ctx, events.Event{
		Type:          typ,
		Room:          b.RoomName,
		WorkspaceID:   b.WorkspaceID,
		UserID:        b.UserID,
		BookingRef:    b.Ref,
		BookingTime:   b.Time,
		DurationHours: b.DurationHours,
	})
}
