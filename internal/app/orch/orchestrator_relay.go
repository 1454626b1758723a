package orch

import (
	"fmt"

	"github.com/dkeye/Talkspace/internal/core"
	"github.com/dkeye/Talkspace/internal/domain"
	"github.com/rs/zerolog/log"
)

// RelayICE forwards a candidate to p.PeerID tagged with the sender's id.
// The candidate bytes are passed through untouched.
func (o *Orchestrator) RelayICE(sid core.SessionID, p domain.RelayICEPayload) error {
	if p.PeerID == "" {
		return fmt.Errorf("%w: relay-ice without peerId", ErrMalformedPayload)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.checkLive(sid); err != nil {
		return err
	}
	o.Rooms.Emit(core.SessionID(p.PeerID), domain.ActionICECandidate, domain.ICECandidate{
		PeerID:       domain.PeerID(sid),
		ICECandidate: p.ICECandidate,
	})
	log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("to", string(p.PeerID)).Int("bytes", len(p.ICECandidate)).Msg("relay ice")
	return nil
}

// RelaySDP forwards an offer or answer to p.PeerID tagged with the sender's id.
func (o *Orchestrator) RelaySDP(sid core.SessionID, p domain.RelaySDPPayload) error {
	if p.PeerID == "" {
		return fmt.Errorf("%w: relay-sdp without peerId", ErrMalformedPayload)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.checkLive(sid); err != nil {
		return err
	}
	o.Rooms.Emit(core.SessionID(p.PeerID), domain.ActionSessionDescription, domain.SessionDescription{
		PeerID:             domain.PeerID(sid),
		SessionDescription: p.SessionDescription,
	})
	log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("to", string(p.PeerID)).Int("bytes", len(p.SessionDescription)).Msg("relay sdp")
	return nil
}

// Mute broadcasts a MUTE or UN_MUTE notice to every member of the room,
// the sender included. Clients ignore notices about themselves.
func (o *Orchestrator) Mute(sid core.SessionID, event domain.Event, p domain.MutePayload) error {
	if event != domain.ActionMute && event != domain.ActionUnMute {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}
	if p.RoomID == "" {
		return fmt.Errorf("%w: %s without roomId", ErrMalformedPayload, event)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.checkLive(sid); err != nil {
		return err
	}
	members := o.Rooms.Members(p.RoomID)
	for _, m := range members {
		o.Rooms.Emit(m, event, domain.MuteState{
			PeerID: domain.PeerID(sid),
			UserID: p.UserID,
		})
	}
	log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("room", string(p.RoomID)).Str("event", string(event)).Int("members", len(members)).Msg("mute state")
	return nil
}
