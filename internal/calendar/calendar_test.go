package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday within the default working week.
func monday(hour int) time.Time {
	return time.Date(2024, 7, 8, hour, 0, 0, 0, time.UTC)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name     string
		duration int
		start    int
		end      int
		days     []string
		wantErr  bool
	}{
		{name: "valid", duration: 1, start: 8, end: 16, days: []string{"Monday"}},
		{name: "zero duration", duration: 0, start: 8, end: 16, days: []string{"Monday"}, wantErr: true},
		{name: "start after end", duration: 1, start: 16, end: 8, days: []string{"Monday"}, wantErr: true},
		{name: "start equals end", duration: 1, start: 8, end: 8, days: []string{"Monday"}, wantErr: true},
		{name: "negative start", duration: 1, start: -1, end: 16, days: []string{"Monday"}, wantErr: true},
		{name: "end out of range", duration: 1, start: 8, end: 24, days: []string{"Monday"}, wantErr: true},
		{name: "no work days", duration: 1, start: 8, end: 16, days: nil, wantErr: true},
		{name: "unknown day", duration: 1, start: 8, end: 16, days: []string{"Mondayy"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.duration, tt.start, tt.end, tt.days)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCalendar_Predicates(t *testing.T) {
	cal := Default()

	t.Run("monday morning is bookable", func(t *testing.T) {
		assert.True(t, cal.IsWorkingDay(monday(10)))
		assert.True(t, cal.IsWithinWorkingHours(monday(10)))
		assert.True(t, cal.IsBookable(monday(10)))
	})

	t.Run("before start hour", func(t *testing.T) {
		assert.False(t, cal.IsWithinWorkingHours(monday(7)))
		assert.False(t, cal.IsBookable(monday(7)))
	})

	t.Run("end hour is exclusive", func(t *testing.T) {
		assert.True(t, cal.IsWithinWorkingHours(monday(15)))
		assert.False(t, cal.IsWithinWorkingHours(monday(16)))
	})

	t.Run("weekend is not a working day", func(t *testing.T) {
		saturday := time.Date(2024, 7, 6, 10, 0, 0, 0, time.UTC)
		assert.False(t, cal.IsWorkingDay(saturday))
		assert.False(t, cal.IsBookable(saturday))
	})
}

func TestCalendar_CaseInsensitiveDays(t *testing.T) {
	cal, err := New(1, 8, 16, []string{"monday", "TUESDAY"})
	require.NoError(t, err)

	assert.True(t, cal.IsWorkingDay(monday(10)))
	tuesday := monday(10).AddDate(0, 0, 1)
	assert.True(t, cal.IsWorkingDay(tuesday))
	wednesday := monday(10).AddDate(0, 0, 2)
	assert.False(t, cal.IsWorkingDay(wednesday))
}

func TestCalendar_SlotInstants(t *testing.T) {
	cal := Default()
	date := time.Date(2024, 7, 8, 0, 0, 0, 0, time.UTC)

	instants := cal.SlotInstants(date)
	require.Len(t, instants, 8)
	assert.Equal(t, monday(8), instants[0])
	assert.Equal(t, monday(15), instants[7])

	t.Run("two hour granularity halves the count", func(t *testing.T) {
		wide, err := New(2, 8, 16, DefaultWorkDays())
		require.NoError(t, err)
		assert.Len(t, wide.SlotInstants(date), 4)
	})
}
