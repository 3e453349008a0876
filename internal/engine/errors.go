package engine

import "errors"

// Engine boundary errors. Workspace- and room-level failures surface
// unchanged from their packages; these cover the registry itself.
var (
	ErrRoomNotFound = errors.New("conference room not found")
	ErrRoomExists   = errors.New("conference room already exists")
	ErrIDRequired   = errors.New("identifier is required")
)
