package room

import "errors"

// Room domain errors.
var (
	ErrWorkspaceExists   = errors.New("workspace id already exists in room")
	ErrWorkspaceNotFound = errors.New("workspace not found in room")
	ErrRoomFull          = errors.New("room is at workspace capacity")
	ErrSlotUnavailable   = errors.New("booking time is not available")
)
