package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Memartyes/y-lab-uni-sub000/internal/engine"
	"github.com/Memartyes/y-lab-uni-sub000/internal/report"
	"github.com/Memartyes/y-lab-uni-sub000/internal/room"
	"github.com/Memartyes/y-lab-uni-sub000/internal/workspace"
)

var monday = time.Date(2024, 7, 8, 10, 0, 0, 0, time.UTC)

func newTestServer() *Server {
	eng := engine.New(engine.Options{Now: func() time.Time { return monday }})
	return NewServer(eng, report.NewService(eng), nil, nil)
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_RoomLifecycle(t *testing.T) {
	h := newTestServer().Handler()

	rec := doRequest(t, h, http.MethodPost, "/api/rooms", `{"name":"room1"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	t.Run("duplicate create conflicts", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/api/rooms", `{"name":"room1"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/api/rooms", `{"name":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rename then old name is gone", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPut, "/api/rooms/room1/name", `{"name":"roomX"}`)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, h, http.MethodGet, "/api/rooms/room1", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		rec = doRequest(t, h, http.MethodGet, "/api/rooms/roomX", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodDelete, "/api/rooms/roomX", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		rec = doRequest(t, h, http.MethodDelete, "/api/rooms/roomX", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServer_BookingFlow(t *testing.T) {
	h := newTestServer().Handler()

	doRequest(t, h, http.MethodPost, "/api/rooms", `{"name":"room1"}`)
	doRequest(t, h, http.MethodPost, "/api/rooms/room1/workspaces", `{"id":"1"}`)

	bookBody := fmt.Sprintf(`{"user_id":"alice","time":%q}`, monday.Format(time.RFC3339))

	rec := doRequest(t, h, http.MethodPost, "/api/rooms/room1/workspaces/1/booking", bookBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var booking map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &booking))
	assert.NotEmpty(t, booking["ref"])

	t.Run("same slot conflicts for a second user", func(t *testing.T) {
		body := fmt.Sprintf(`{"user_id":"bob","time":%q}`, monday.Format(time.RFC3339))
		rec := doRequest(t, h, http.MethodPost, "/api/rooms/room1/workspaces/1/booking", body)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("outside working hours conflicts", func(t *testing.T) {
		early := time.Date(2024, 7, 8, 7, 0, 0, 0, time.UTC)
		body := fmt.Sprintf(`{"user_id":"bob","time":%q}`, early.Format(time.RFC3339))
		rec := doRequest(t, h, http.MethodPost, "/api/rooms/room1/workspaces/1/booking", body)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("unknown workspace is 404", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/api/rooms/room1/workspaces/9/booking", bookBody)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("slots drop the booked hour", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/rooms/room1/slots?date=2024-07-08", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var slots []string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &slots))
		assert.Len(t, slots, 7)
		assert.NotContains(t, slots, "10:00")
	})

	t.Run("cancel then double cancel conflicts", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodDelete, "/api/rooms/room1/workspaces/1/booking", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		rec = doRequest(t, h, http.MethodDelete, "/api/rooms/room1/workspaces/1/booking", "")
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestIsSchedulingConflict(t *testing.T) {
	assert.True(t, isSchedulingConflict(room.ErrSlotUnavailable))
	assert.True(t, isSchedulingConflict(workspace.ErrAlreadyBooked))
	assert.True(t, isSchedulingConflict(fmt.Errorf("book: %w", room.ErrSlotUnavailable)))

	// Other 409s are not time-slot contention and must not count.
	assert.False(t, isSchedulingConflict(engine.ErrRoomExists))
	assert.False(t, isSchedulingConflict(room.ErrWorkspaceExists))
	assert.False(t, isSchedulingConflict(workspace.ErrNotBooked))
	assert.False(t, isSchedulingConflict(engine.ErrRoomNotFound))
}

func TestServer_MostAvailable(t *testing.T) {
	h := newTestServer().Handler()

	t.Run("no rooms with free workspaces", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/rooms/most-available", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	doRequest(t, h, http.MethodPost, "/api/rooms", `{"name":"room1"}`)
	doRequest(t, h, http.MethodPost, "/api/rooms/room1/workspaces", `{"id":"1"}`)

	rec := doRequest(t, h, http.MethodGet, "/api/rooms/most-available", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_Reports(t *testing.T) {
	h := newTestServer().Handler()

	doRequest(t, h, http.MethodPost, "/api/rooms", `{"name":"room1"}`)
	doRequest(t, h, http.MethodPost, "/api/rooms/room1/workspaces", `{"id":"1"}`)
	bookBody := fmt.Sprintf(`{"user_id":"alice","time":%q}`, monday.Format(time.RFC3339))
	doRequest(t, h, http.MethodPost, "/api/rooms/room1/workspaces/1/booking", bookBody)

	t.Run("by date", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/reports/by-date?date=2024-07-08", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var lines []string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lines))
		assert.Len(t, lines, 1)
	})

	t.Run("by user requires the parameter", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/reports/by-user", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = doRequest(t, h, http.MethodGet, "/api/reports/by-user?user=alice", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("available rooms is empty when all booked", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/reports/available", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var lines []string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lines))
		assert.Empty(t, lines)
	})

	t.Run("export returns a workbook", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/reports/export", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
		assert.NotZero(t, rec.Body.Len())
	})
}
