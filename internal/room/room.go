// Package room provides the conference room aggregate: an ordered set of
// workspaces with room-level availability rules.
package room

import (
	"sync"
	"time"

	"github.com/Memartyes/y-lab-uni-sub000/internal/calendar"
	"github.com/Memartyes/y-lab-uni-sub000/internal/workspace"
)

// Booking describes a successfully placed booking; it is what a room
// hands back for event publication and front-end responses.
type Booking struct {
	Ref           string    `json:"ref"`
	RoomName      string    `json:"room"`
	WorkspaceID   string    `json:"workspace_id"`
	UserID        string    `json:"user_id"`
	Time          time.Time `json:"time"`
	DurationHours int       `json:"duration_hours"`
}

// Info is a read-only snapshot of a room for listings.
type Info struct {
	Name       string           `json:"name"`
	Capacity   int              `json:"capacity,omitempty"`
	Workspaces []workspace.Info `json:"workspaces"`
	Available  int              `json:"available"`
}

// Room owns an ordered collection of workspaces. All state access goes
// through its mutex so that an availability check and the booking that
// relies on it happen in one critical section.
type Room struct {
	mu         sync.Mutex
	name       string
	capacity   int // 0 disables the add-limit
	cal        calendar.Calendar
	workspaces []*workspace.Workspace
}

// New creates an empty room. A capacity of zero leaves the workspace
// count unbounded.
func New(name string, capacity int, cal calendar.Calendar) *Room {
	return &Room{
		name:     name,
		capacity: capacity,
		cal:      cal,
	}
}

// Name returns the room's registry name.
func (r *Room) Name() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.name
}

// Rename updates the room's name. The registry re-keys the entry; the
// room only tracks the label it reports in snapshots.
func (r *Room) Rename(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.name = name
}

// AddWorkspace appends a free workspace with the given id. It fails
// when the id is already present or the room is at capacity.
func (r *Room) AddWorkspace(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findLocked(id) != nil {
		return ErrWorkspaceExists
	}
	if r.capacity > 0 && len(r.workspaces) >= r.capacity {
		return ErrRoomFull
	}
	r.workspaces = append(r.workspaces, workspace.New(id))
	return nil
}

// WorkspaceCount returns the number of workspaces in the room.
func (r *Room) WorkspaceCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

// IsBookingTimeAvailable reports whether a booking may start at the
// instant: it must satisfy the working calendar and no workspace in the
// room may already be booked at exactly that instant. The room models a
// meeting-slot semantic, so occupancy is exact-instant, not interval
// overlap.
func (r *Room) IsBookingTimeAvailable(at time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isBookingTimeAvailableLocked(at)
}

func (r *Room) isBookingTimeAvailableLocked(at time.Time) bool {
	if !r.cal.IsBookable(at) {
		return false
	}
	return !r.slotTakenLocked(at)
}

func (r *Room) slotTakenLocked(at time.Time) bool {
	for _, ws := range r.workspaces {
		if booked, ok := ws.BookingTime(); ok && booked.Equal(at) {
			return true
		}
	}
	return false
}

// BookWorkspace checks room-level availability and books the workspace
// in one critical section.
func (r *Room) BookWorkspace(id, userID string, at time.Time) (Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ws := r.findLocked(id)
	if ws == nil {
		return Booking{}, ErrWorkspaceNotFound
	}
	if !r.isBookingTimeAvailableLocked(at) {
		return Booking{}, ErrSlotUnavailable
	}

	duration := r.cal.BookingDurationHours()
	ref, err := ws.Book(userID, at, duration)
	if err != nil {
		return Booking{}, err
	}
	return Booking{
		Ref:           ref,
		RoomName:      r.name,
		WorkspaceID:   id,
		UserID:        userID,
		Time:          at,
		DurationHours: duration,
	}, nil
}

// BookAllWorkspaces books every currently free workspace at the instant
// after a single room-wide availability check. Workspaces that already
// hold a booking are left untouched; the caller gets whatever was still
// free.
func (r *Room) BookAllWorkspaces(userID string, at time.Time) ([]Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isBookingTimeAvailableLocked(at) {
		return nil, ErrSlotUnavailable
	}

	duration := r.cal.BookingDurationHours()
	var bookings []Booking
	for _, ws := range r.workspaces {
		if ws.IsBooked() {
			continue
		}
		ref, err := ws.Book(userID, at, duration)
		if err != nil {
			return bookings, err
		}
		bookings = append(bookings, Booking{
			Ref:           ref,
			RoomName:      r.name,
			WorkspaceID:   ws.ID(),
			UserID:        userID,
			Time:          at,
			DurationHours: duration,
		})
	}
	return bookings, nil
}

// CancelWorkspace releases the booking on one workspace and returns the
// cancelled booking details. Cancelling a free workspace is an error.
func (r *Room) CancelWorkspace(id string) (Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ws := r.findLocked(id)
	if ws == nil {
		return Booking{}, ErrWorkspaceNotFound
	}

	at, _ := ws.BookingTime()
	userID := ws.BookedBy()
	ref, err := ws.Cancel()
	if err != nil {
		return Booking{}, err
	}
	return Booking{
		Ref:         ref,
		RoomName:    r.name,
		WorkspaceID: id,
		UserID:      userID,
		Time:        at,
	}, nil
}

// CancelAllWorkspaces releases every booked workspace. Free workspaces
// are skipped silently; cancel-all is a sweep, not a per-desk command.
func (r *Room) CancelAllWorkspaces() []Booking {
	r.mu.Lock()
	defer r.mu.Unlock()

	var cancelled []Booking
	for _, ws := range r.workspaces {
		if !ws.IsBooked() {
			continue
		}
		at, _ := ws.BookingTime()
		userID := ws.BookedBy()
		ref, err := ws.Cancel()
		if err != nil {
			continue
		}
		cancelled = append(cancelled, Booking{
			Ref:         ref,
			RoomName:    r.name,
			WorkspaceID: ws.ID(),
			UserID:      userID,
			Time:        at,
		})
	}
	return cancelled
}

// AvailableSlots enumerates the bookable hours on the date, in ascending
// order, formatted "15:04". A slot is present when no workspace in the
// room is booked at exactly that instant. The list is recomputed on
// every call.
func (r *Room) AvailableSlots(date time.Time) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var slots []string
	for _, instant := range r.cal.SlotInstants(date) {
		if r.slotTakenLocked(instant) {
			continue
		}
		slots = append(slots, instant.Format("15:04"))
	}
	return slots
}

// AvailableWorkspaceCount returns the number of free workspaces.
func (r *Room) AvailableWorkspaceCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.availableLocked()
}

func (r *Room) availableLocked() int {
	count := 0
	for _, ws := range r.workspaces {
		if !ws.IsBooked() {
			count++
		}
	}
	return count
}

// HasAvailableWorkspaces reports whether at least one workspace is free.
func (r *Room) HasAvailableWorkspaces() bool {
	return r.AvailableWorkspaceCount() > 0
}

// HasBookingOnDate reports whether any workspace is booked on the
// calendar date of the given instant.
func (r *Room) HasBookingOnDate(date time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ws := range r.workspaces {
		at, ok := ws.BookingTime()
		if !ok {
			continue
		}
		if sameDate(at, date) {
			return true
		}
	}
	return false
}

// HasBookingByUser reports whether any workspace is booked by the user.
func (r *Room) HasBookingByUser(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ws := range r.workspaces {
		if ws.IsBooked() && ws.BookedBy() == userID {
			return true
		}
	}
	return false
}

// Snapshot copies the room state for listings and reports.
func (r *Room) Snapshot(now time.Time) Info {
	r.mu.Lock()
	defer r.mu.Unlock()

	info := Info{
		Name:      r.name,
		Capacity:  r.capacity,
		Available: r.availableLocked(),
	}
	info.Workspaces = make([]workspace.Info, 0, len(r.workspaces))
	for _, ws := range r.workspaces {
		info.Workspaces = append(info.Workspaces, ws.Snapshot(now))
	}
	return info
}

func (r *Room) findLocked(id string) *workspace.Workspace {
	for _, ws := range r.workspaces {
		if ws.ID() == id {
			return ws
		}
	}
	return nil
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
