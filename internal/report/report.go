// Package report provides read-only filter queries over the room
// registry, producing human-readable result lines for front-ends.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/Memartyes/y-lab-uni-sub000/internal/room"
)

// RoomSource supplies the rooms to scan and the reporting instant.
// Line order follows the source's iteration order, which is not
// guaranteed.
type RoomSource interface {
	Rooms() []*room.Room
	Now() time.Time
}

// Service runs filter queries against a room source.
type Service struct {
	source RoomSource
}

// NewService builds a report service over the source.
func NewService(source RoomSource) *Service {
	return &Service{source: source}
}

// FilterByDate describes every room holding at least one booking on the
// calendar date of the given instant.
func (s *Service) FilterByDate(date time.Time) []string {
	var lines []string
	for _, r := range s.source.Rooms() {
		if !r.HasBookingOnDate(date) {
			continue
		}
		lines = append(lines, s.describeBookings(r, func(ws bookingRow) bool {
			return sameDate(ws.Time, date)
		}))
	}
	return lines
}

// FilterByUser describes every room where the user holds a booking.
func (s *Service) FilterByUser(userID string) []string {
	var lines []string
	for _, r := range s.source.Rooms() {
		if !r.HasBookingByUser(userID) {
			continue
		}
		lines = append(lines, s.describeBookings(r, func(ws bookingRow) bool {
			return ws.User == userID
		}))
	}
	return lines
}

// FilterByAvailableWorkspaces describes every room with at least one
// free workspace.
func (s *Service) FilterByAvailableWorkspaces() []string {
	var lines []string
	for _, r := range s.source.Rooms() {
		if !r.HasAvailableWorkspaces() {
			continue
		}
		snap := r.Snapshot(s.source.Now())
		lines = append(lines, fmt.Sprintf("%s: %d of %d workspaces available",
			snap.Name, snap.Available, len(snap.Workspaces)))
	}
	return lines
}

type bookingRow struct {
	WorkspaceID string
	User        string
	Time        time.Time
	Expired     bool
}

func (s *Service) describeBookings(r *room.Room, match func(bookingRow) bool) string {
	snap := r.Snapshot(s.source.Now())
	var parts []string
	for _, ws := range snap.Workspaces {
		if !ws.Booked || ws.BookingTime == nil {
			continue
		}
		row := bookingRow{
			WorkspaceID: ws.ID,
			User:        ws.BookedBy,
			Time:        *ws.BookingTime,
			Expired:     ws.Expired,
		}
		if !match(row) {
			continue
		}
		detail := fmt.Sprintf("workspace %s booked by %s at %s",
			row.WorkspaceID, row.User, row.Time.Format("2006-01-02 15:04"))
		if row.Expired {
			detail += " (expired)"
		}
		parts = append(parts, detail)
	}
	return fmt.Sprintf("%s: %s", snap.Name, strings.Join(parts, "; "))
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
