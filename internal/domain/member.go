package domain

// Member is a read-only view of one connection inside a room.
// No transport or lifecycle logic here.
type Member struct {
	PeerID PeerID `json:"peerId"`
	User   *User  `json:"user,omitempty"`
}
