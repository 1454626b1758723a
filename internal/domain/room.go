package domain

type RoomID string

// PeerID is the transport-issued identifier of a connection as it appears on the wire.
type PeerID string
