package core

// SessionID identifies one live transport connection. It is issued by the
// transport when a client attaches and is what peers see as peerId.
type SessionID string
