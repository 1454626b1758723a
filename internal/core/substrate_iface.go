package core

import "github.com/dkeye/Talkspace/internal/domain"

// Substrate is the real-time messaging layer the router runs on top of:
// per-connection delivery plus named rooms. All methods are non-blocking.
type Substrate interface {
	// Emit delivers one event to one connection. Unknown connections are a silent no-op.
	Emit(to SessionID, event domain.Event, payload any)
	// Members returns a snapshot of the connections in room.
	Members(room domain.RoomID) []SessionID
	Join(sid SessionID, room domain.RoomID)
	Leave(sid SessionID, room domain.RoomID)
	// RoomsOf returns a snapshot of the named rooms sid belongs to.
	RoomsOf(sid SessionID) []domain.RoomID
}

type RoomInfo struct {
	ID          domain.RoomID `json:"id"`
	MemberCount int           `json:"client_count"`
}
