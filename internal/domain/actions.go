package domain

import "encoding/json"

// Event is the name carried by every signaling message.
type Event string

// Inbound events.
const (
	ActionJoin     Event = "join"
	ActionLeave    Event = "leave"
	ActionRelayICE Event = "relay-ice"
	ActionRelaySDP Event = "relay-sdp"
	ActionMute     Event = "mute"
	ActionUnMute   Event = "un-mute"
)

// Outbound events. MUTE and UN_MUTE reuse the inbound names.
const (
	ActionAddPeer            Event = "add-peer"
	ActionRemovePeer         Event = "remove-peer"
	ActionICECandidate       Event = "ice-candidate"
	ActionSessionDescription Event = "session-description"
)

// Transport-level keepalive, answered by the WebSocket adapter itself.
const (
	ActionPing Event = "ping"
	ActionPong Event = "pong"
)

// Envelope is the wire frame for both directions.
type Envelope struct {
	Type Event           `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type JoinPayload struct {
	RoomID RoomID          `json:"roomId"`
	User   json.RawMessage `json:"user"`
}

type RelayICEPayload struct {
	PeerID       PeerID          `json:"peerId"`
	ICECandidate json.RawMessage `json:"icecandidate"`
}

type RelaySDPPayload struct {
	PeerID             PeerID          `json:"peerId"`
	SessionDescription json.RawMessage `json:"sessionDescription"`
}

// MutePayload is shared by MUTE and UN_MUTE.
type MutePayload struct {
	RoomID RoomID          `json:"roomId"`
	UserID json.RawMessage `json:"userId"`
}

// LeavePayload carries a roomId for client compatibility; leave always
// tears down every room the connection is in.
type LeavePayload struct {
	RoomID RoomID `json:"roomId,omitempty"`
}

type AddPeer struct {
	PeerID      PeerID `json:"peerId"`
	CreateOffer bool   `json:"createOffer"`
	User        *User  `json:"user,omitempty"`
}

type RemovePeer struct {
	PeerID PeerID          `json:"peerId"`
	UserID json.RawMessage `json:"userId,omitempty"`
}

type ICECandidate struct {
	PeerID       PeerID          `json:"peerId"`
	ICECandidate json.RawMessage `json:"icecandidate"`
}

type SessionDescription struct {
	PeerID             PeerID          `json:"peerId"`
	SessionDescription json.RawMessage `json:"sessionDescription"`
}

// MuteState is the outbound MUTE / UN_MUTE payload.
type MuteState struct {
	PeerID PeerID          `json:"peerId"`
	UserID json.RawMessage `json:"userId,omitempty"`
}
