package orch

import (
	"fmt"

	"github.com/dkeye/Talkspace/internal/core"
	"github.com/dkeye/Talkspace/internal/domain"
	"github.com/rs/zerolog/log"
)

// Join registers the user of sid and pairs sid with every current member of
// the room. The newcomer always creates the offer; existing members wait.
func (o *Orchestrator) Join(sid core.SessionID, p domain.JoinPayload) error {
	if p.RoomID == "" {
		return fmt.Errorf("%w: join without roomId", ErrMalformedPayload)
	}
	user, err := domain.NewUser(p.User)
	if err != nil {
		return fmt.Errorf("%w: join: %v", ErrMalformedPayload, err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.checkLive(sid); err != nil {
		return err
	}

	o.Registry.SetUser(sid, user)
	paired := 0
	for _, peer := range o.Rooms.Members(p.RoomID) {
		if peer == sid {
			continue
		}
		paired++
		o.Rooms.Emit(peer, domain.ActionAddPeer, domain.AddPeer{
			PeerID:      domain.PeerID(sid),
			CreateOffer: false,
			User:        user,
		})
		peerUser, _ := o.Registry.GetUser(peer)
		o.Rooms.Emit(sid, domain.ActionAddPeer, domain.AddPeer{
			PeerID:      domain.PeerID(peer),
			CreateOffer: true,
			User:        peerUser,
		})
	}
	o.Rooms.Join(sid, p.RoomID)

	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(p.RoomID)).Int("peers", paired).Msg("join")
	return nil
}

// Leave tears sid down from every room it is in, whichever room the client
// named. The connection stays live and may join again.
func (o *Orchestrator) Leave(sid core.SessionID) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.checkLive(sid); err != nil {
		return err
	}
	o.teardown(sid)
	o.Registry.Remove(sid)
	return nil
}

// OnDisconnect runs the teardown for a connection the transport lost.
// Only the first call per connection has any effect.
func (o *Orchestrator) OnDisconnect(sid core.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.Registry.Live(sid) {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Msg("disconnect already handled")
		return
	}
	o.teardown(sid)
	o.Registry.Detach(sid)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Msg("disconnect")
}

// teardown sends the symmetric REMOVE_PEER pair for every member of every
// room sid is in, sid itself included, then leaves those rooms.
func (o *Orchestrator) teardown(sid core.SessionID) {
	selfID := userID(o.Registry.GetUser(sid))
	for _, room := range o.Rooms.RoomsOf(sid) {
		members := o.Rooms.Members(room)
		for _, m := range members {
			o.Rooms.Emit(m, domain.ActionRemovePeer, domain.RemovePeer{
				PeerID: domain.PeerID(sid),
				UserID: selfID,
			})
			o.Rooms.Emit(sid, domain.ActionRemovePeer, domain.RemovePeer{
				PeerID: domain.PeerID(m),
				UserID: userID(o.Registry.GetUser(m)),
			})
		}
		o.Rooms.Leave(sid, room)
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(room)).Int("members", len(members)).Msg("left room")
	}
}
