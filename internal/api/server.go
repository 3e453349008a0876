// Package api exposes the booking engine over HTTP. Each route maps to
// one engine operation; engine errors translate to HTTP statuses.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Memartyes/y-lab-uni-sub000/internal/cache"
	"github.com/Memartyes/y-lab-uni-sub000/internal/engine"
	"github.com/Memartyes/y-lab-uni-sub000/internal/metrics"
	"github.com/Memartyes/y-lab-uni-sub000/internal/report"
	"github.com/Memartyes/y-lab-uni-sub000/internal/room"
	"github.com/Memartyes/y-lab-uni-sub000/internal/workspace"
)

// Server serves the booking REST API.
type Server struct {
	engine  *engine.Engine
	reports *report.Service
	slots   *cache.SlotCache
	log     zerolog.Logger
}

// NewServer wires the API over the engine. The slot cache may be nil.
func NewServer(eng *engine.Engine, reports *report.Service, slots *cache.SlotCache, logger *zerolog.Logger) *Server {
	log := zerolog.Nop()
	if logger != nil {
		log = *logger
	}
	return &Server{engine: eng, reports: reports, slots: slots, log: log}
}

// Handler builds the routed handler with logging and rate limiting.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/rooms", s.handleCreateRoom)
	mux.HandleFunc("GET /api/rooms", s.handleListRooms)
	mux.HandleFunc("GET /api/rooms/most-available", s.handleMostAvailable)
	mux.HandleFunc("GET /api/rooms/{room}", s.handleGetRoom)
	mux.HandleFunc("PUT /api/rooms/{room}/name", s.handleRenameRoom)
	mux.HandleFunc("DELETE /api/rooms/{room}", s.handleDeleteRoom)

	mux.HandleFunc("POST /api/rooms/{room}/workspaces", s.handleAddWorkspace)
	mux.HandleFunc("POST /api/rooms/{room}/workspaces/{workspace}/booking", s.handleBookWorkspace)
	mux.HandleFunc("DELETE /api/rooms/{room}/workspaces/{workspace}/booking", s.handleCancelBooking)
	mux.HandleFunc("POST /api/rooms/{room}/bookings", s.handleBookAll)
	mux.HandleFunc("DELETE /api/rooms/{room}/bookings", s.handleCancelAll)
	mux.HandleFunc("GET /api/rooms/{room}/slots", s.handleAvailableSlots)

	mux.HandleFunc("GET /api/reports/by-date", s.handleReportByDate)
	mux.HandleFunc("GET /api/reports/by-user", s.handleReportByUser)
	mux.HandleFunc("GET /api/reports/available", s.handleReportAvailable)
	mux.HandleFunc("GET /api/reports/export", s.handleReportExport)

	return s.requestLogger(rateLimit(mux))
}

type createRoomRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.engine.CreateRoom(r.Context(), req.Name); err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"name": req.Name})
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	now := s.engine.Now()
	rooms := make([]room.Info, 0)
	for _, rm := range s.engine.Rooms() {
		rooms = append(rooms, rm.Snapshot(now))
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	rm, err := s.engine.Room(r.PathValue("room"))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rm.Snapshot(s.engine.Now()))
}

type renameRoomRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleRenameRoom(w http.ResponseWriter, r *http.Request) {
	var req renameRoomRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.engine.RenameRoom(r.Context(), r.PathValue("room"), req.Name); err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": req.Name})
}

func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.DeleteRoom(r.Context(), r.PathValue("room")); err != nil {
		s.writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addWorkspaceRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleAddWorkspace(w http.ResponseWriter, r *http.Request) {
	var req addWorkspaceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.engine.AddWorkspace(r.Context(), r.PathValue("room"), req.ID); err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": req.ID})
}

type bookingRequest struct {
	UserID string    `json:"user_id"`
	Time   time.Time `json:"time"`
}

func (s *Server) handleBookWorkspace(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	booking, err := s.engine.BookWorkspace(
		r.Context(), r.PathValue("room"), r.PathValue("workspace"), req.UserID, req.Time,
	)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (s *Server) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	cancelled, err := s.engine.CancelWorkspaceBooking(
		r.Context(), r.PathValue("room"), r.PathValue("workspace"),
	)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cancelled)
}

func (s *Server) handleBookAll(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	bookings, err := s.engine.BookAllWorkspaces(r.Context(), r.PathValue("room"), req.UserID, req.Time)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	if bookings == nil {
		bookings = []room.Booking{}
	}
	writeJSON(w, http.StatusCreated, bookings)
}

func (s *Server) handleCancelAll(w http.ResponseWriter, r *http.Request) {
	cancelled, err := s.engine.CancelAllBookings(r.Context(), r.PathValue("room"))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	if cancelled == nil {
		cancelled = []room.Booking{}
	}
	writeJSON(w, http.StatusOK, cancelled)
}

func (s *Server) handleAvailableSlots(w http.ResponseWriter, r *http.Request) {
	roomName := r.PathValue("room")
	dateStr := r.URL.Query().Get("date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date; expected YYYY-MM-DD")
		return
	}

	if slots, ok := s.slots.Get(r.Context(), roomName, dateStr); ok {
		writeJSON(w, http.StatusOK, slots)
		return
	}

	slots, err := s.engine.AvailableSlots(r.Context(), roomName, date)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	if slots == nil {
		slots = []string{}
	}
	s.slots.Set(r.Context(), roomName, dateStr, slots)
	writeJSON(w, http.StatusOK, slots)
}

func (s *Server) handleMostAvailable(w http.ResponseWriter, r *http.Request) {
	best, ok := s.engine.MostAvailableRoom(r.Context())
	if !ok {
		writeError(w, http.StatusNotFound, "no room with available workspaces")
		return
	}
	writeJSON(w, http.StatusOK, best.Snapshot(s.engine.Now()))
}

func (s *Server) handleReportByDate(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date; expected YYYY-MM-DD")
		return
	}
	writeJSON(w, http.StatusOK, linesOrEmpty(s.reports.FilterByDate(date)))
}

func (s *Server) handleReportByUser(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user query parameter is required")
		return
	}
	writeJSON(w, http.StatusOK, linesOrEmpty(s.reports.FilterByUser(userID)))
}

func (s *Server) handleReportAvailable(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, linesOrEmpty(s.reports.FilterByAvailableWorkspaces()))
}

func (s *Server) handleReportExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="bookings.xlsx"`)
	if err := s.reports.ExportWorkbook(w); err != nil {
		s.log.Error().Err(err).Msg("report export failed")
	}
}

func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	if isSchedulingConflict(err) {
		metrics.IncSchedulingConflict()
	}
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("unexpected engine error")
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

// isSchedulingConflict distinguishes time-slot contention from other
// 409s: duplicate names and double cancels are conflicts on the wire
// but not scheduling failures.
func isSchedulingConflict(err error) bool {
	return errors.Is(err, room.ErrSlotUnavailable) ||
		errors.Is(err, workspace.ErrAlreadyBooked)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrRoomNotFound),
		errors.Is(err, room.ErrWorkspaceNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrRoomExists),
		errors.Is(err, room.ErrWorkspaceExists),
		errors.Is(err, room.ErrRoomFull),
		errors.Is(err, room.ErrSlotUnavailable),
		errors.Is(err, workspace.ErrAlreadyBooked),
		errors.Is(err, workspace.ErrNotBooked):
		return http.StatusConflict
	case errors.Is(err, engine.ErrIDRequired),
		errors.Is(err, workspace.ErrUserRequired),
		errors.Is(err, workspace.ErrTimeRequired),
		errors.Is(err, workspace.ErrInvalidDuration):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func linesOrEmpty(lines []string) []string {
	if lines == nil {
		return []string{}
	}
	return lines
}
