// Package workspace models a single bookable unit inside a conference room.
package workspace

import (
	"time"

	"github.com/google/uuid"
)

// Workspace is a desk with at most one active booking. It moves between
// two states, free and booked; expiry is a computed property and never
// changes stored state on its own.
type Workspace struct {
	id            string
	booked        bool
	bookedBy      string
	bookingTime   time.Time
	durationHours int
	bookingRef    string
}

// Info is a read-only snapshot of a workspace, safe to hand to
// front-ends and reports.
type Info struct {
	ID            string     `json:"id"`
	Booked        bool       `json:"booked"`
	BookedBy      string     `json:"booked_by,omitempty"`
	BookingRef    string     `json:"booking_ref,omitempty"`
	BookingTime   *time.Time `json:"booking_time,omitempty"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	DurationHours int        `json:"duration_hours,omitempty"`
	Expired       bool       `json:"expired,omitempty"`
}

// New creates a free workspace with the given id.
func New(id string) *Workspace {
	return &Workspace{id: id}
}

// ID returns the workspace identifier, unique within its room.
func (w *Workspace) ID() string {
	return w.id
}

// IsBooked reports whether the workspace currently holds a booking.
func (w *Workspace) IsBooked() bool {
	return w.booked
}

// BookedBy returns the user holding the booking, empty when free.
func (w *Workspace) BookedBy() string {
	return w.bookedBy
}

// BookingTime returns the booked slot instant and whether one is set.
func (w *Workspace) BookingTime() (time.Time, bool) {
	return w.bookingTime, w.booked
}

// BookingRef returns the reference assigned at book time, empty when free.
func (w *Workspace) BookingRef() string {
	return w.bookingRef
}

// Book places a booking on a free workspace and returns the booking
// reference. Booking an already-booked workspace is an invalid state,
// not merely an unavailable slot.
func (w *Workspace) Book(userID string, at time.Time, durationHours int) (string, error) {
	if userID == "" {
		return "", ErrUserRequired
	}
	if at.IsZero() {
		return "", ErrTimeRequired
	}
	if durationHours <= 0 {
		return "", ErrInvalidDuration
	}
	if w.booked {
		return "", ErrAlreadyBooked
	}

	w.booked = true
	w.bookedBy = userID
	w.bookingTime = at
	w.durationHours = durationHours
	w.bookingRef = uuid.NewString()
	return w.bookingRef, nil
}

// Cancel releases the booking and returns its reference. Cancelling a
// free workspace is an error, mirroring Book on an occupied one.
func (w *Workspace) Cancel() (string, error) {
	if !w.booked {
		return "", ErrNotBooked
	}

	ref := w.bookingRef
	w.booked = false
	w.bookedBy = ""
	w.bookingTime = time.Time{}
	w.durationHours = 0
	w.bookingRef = ""
	return ref, nil
}

// IsExpired reports whether the booking's end has passed. A free
// workspace is never expired. Expiry is advisory: the booking stays
// recorded until it is cancelled.
func (w *Workspace) IsExpired(now time.Time) bool {
	if !w.booked {
		return false
	}
	return now.After(w.endTime())
}

// EndTime returns the booking end instant when the workspace is booked
// and the booking has not expired.
func (w *Workspace) EndTime(now time.Time) (time.Time, bool) {
	if !w.booked || w.IsExpired(now) {
		return time.Time{}, false
	}
	return w.endTime(), true
}

func (w *Workspace) endTime() time.Time {
	return w.bookingTime.Add(time.Duration(w.durationHours) * time.Hour)
}

// Snapshot copies the workspace state into an Info, computing expiry
// against the supplied instant.
func (w *Workspace) Snapshot(now time.Time) Info {
	info := Info{
		ID:     w.id,
		Booked: w.booked,
	}
	if !w.booked {
		return info
	}

	bookingTime := w.bookingTime
	info.BookedBy = w.bookedBy
	info.BookingRef = w.bookingRef
	info.BookingTime = &bookingTime
	info.DurationHours = w.durationHours
	info.Expired = w.IsExpired(now)
	if end, ok := w.EndTime(now); ok {
		info.EndTime = &end
	}
	return info
}
