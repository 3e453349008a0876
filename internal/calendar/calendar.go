// Package calendar defines the working-hours rules a booking must satisfy.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Default working calendar values.
const (
	DefaultBookingDurationHours = 1
	DefaultStartHour            = 8
	DefaultEndHour              = 16
)

// DefaultWorkDays returns the default Monday..Friday working week.
func DefaultWorkDays() []string {
	return []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
}

// Calendar is an immutable set of working-day/working-hour predicates.
// Hours are half-open: a timestamp is inside working hours when
// startHour <= hour < endHour.
type Calendar struct {
	durationHours int
	startHour     int
	endHour       int
	workDays      map[time.Weekday]bool
}

// New validates the configuration and builds a calendar.
// Day names are matched case-insensitively ("monday" and "Monday" are equal).
func New(durationHours, startHour, endHour int, workDays []string) (Calendar, error) {
	if durationHours <= 0 {
		return Calendar{}, fmt.Errorf("booking duration must be positive, got %d", durationHours)
	}
	if startHour < 0 || startHour > 23 {
		return Calendar{}, fmt.Errorf("start hour out of range: %d", startHour)
	}
	if endHour < 0 || endHour > 23 {
		return Calendar{}, fmt.Errorf("end hour out of range: %d", endHour)
	}
	if startHour >= endHour {
		return Calendar{}, fmt.Errorf("start hour %d must be before end hour %d", startHour, endHour)
	}
	if len(workDays) == 0 {
		return Calendar{}, fmt.Errorf("at least one work day is required")
	}

	days := make(map[time.Weekday]bool, len(workDays))
	for _, name := range workDays {
		day, err := parseWeekday(name)
		if err != nil {
			return Calendar{}, err
		}
		days[day] = true
	}

	return Calendar{
		durationHours: durationHours,
		startHour:     startHour,
		endHour:       endHour,
		workDays:      days,
	}, nil
}

// Default returns the standard calendar: one-hour slots, 08:00-16:00, Monday-Friday.
func Default() Calendar {
	cal, err := New(DefaultBookingDurationHours, DefaultStartHour, DefaultEndHour, DefaultWorkDays())
	if err != nil {
		panic(err) // defaults are statically valid
	}
	return cal
}

// IsZero reports whether the calendar was never configured.
func (c Calendar) IsZero() bool {
	return c.workDays == nil
}

// IsWorkingDay reports whether the timestamp falls on a configured work day.
func (c Calendar) IsWorkingDay(t time.Time) bool {
	return c.workDays[t.Weekday()]
}

// IsWithinWorkingHours reports whether the timestamp's hour lies in [startHour, endHour).
func (c Calendar) IsWithinWorkingHours(t time.Time) bool {
	hour := t.Hour()
	return hour >= c.startHour && hour < c.endHour
}

// IsBookable reports whether a booking may start at the timestamp.
func (c Calendar) IsBookable(t time.Time) bool {
	return c.IsWorkingDay(t) && c.IsWithinWorkingHours(t)
}

// SlotInstants enumerates every slot start on the given date in ascending
// order, stepping by the booking duration across [startHour, endHour).
func (c Calendar) SlotInstants(date time.Time) []time.Time {
	var instants []time.Time
	for hour := c.startHour; hour < c.endHour; hour += c.durationHours {
		instants = append(instants, time.Date(
			date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, date.Location(),
		))
	}
	return instants
}

// BookingDurationHours returns the slot granularity in hours.
func (c Calendar) BookingDurationHours() int {
	return c.durationHours
}

// StartHour returns the first bookable hour of a work day.
func (c Calendar) StartHour() int {
	return c.startHour
}

// EndHour returns the first non-bookable hour after the working window.
func (c Calendar) EndHour() int {
	return c.endHour
}

func parseWeekday(name string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	}
	return 0, fmt.Errorf("unknown weekday: %q", name)
}
