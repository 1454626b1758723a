package app

import (
	"cmp"
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/dkeye/Talkspace/internal/core"
	"github.com/dkeye/Talkspace/internal/domain"
	"github.com/go4org/hashtriemap"
	"github.com/rs/zerolog/log"
)

// ErrBackpressure is returned by SignalConnection.TrySend when the
// connection's outbound buffer is full.
var ErrBackpressure = errors.New("backpressure")

// Hub is the in-process messaging substrate: a table of live connections
// plus named rooms. It implements core.Substrate.
type Hub struct {
	conns  hashtriemap.HashTrieMap[core.SessionID, core.SignalConnection]
	policy Policy

	mu     sync.RWMutex
	rooms  map[domain.RoomID]map[core.SessionID]struct{}
	joined map[core.SessionID]map[domain.RoomID]struct{}
}

func NewHub(policy Policy) *Hub {
	if policy == nil {
		policy = SimplePolicy{}
	}
	return &Hub{
		policy: policy,
		rooms:  make(map[domain.RoomID]map[core.SessionID]struct{}),
		joined: make(map[core.SessionID]map[domain.RoomID]struct{}),
	}
}

func (h *Hub) Register(sid core.SessionID, conn core.SignalConnection) {
	h.conns.Store(sid, conn)
	log.Info().Str("module", "app.hub").Str("sid", string(sid)).Msg("connection registered")
}

// Unregister forgets the connection and drops any room membership it still has.
func (h *Hub) Unregister(sid core.SessionID) {
	h.conns.Delete(sid)

	h.mu.Lock()
	for room := range h.joined[sid] {
		h.leaveLocked(sid, room)
	}
	delete(h.joined, sid)
	h.mu.Unlock()
	log.Info().Str("module", "app.hub").Str("sid", string(sid)).Msg("connection unregistered")
}

func (h *Hub) Emit(to core.SessionID, event domain.Event, payload any) {
	conn, ok := h.conns.Load(to)
	if !ok {
		log.Debug().Str("module", "app.hub").Str("to", string(to)).Str("event", string(event)).Msg("emit to unknown connection dropped")
		return
	}
	frame, err := encode(event, payload)
	if err != nil {
		log.Error().Err(err).Str("module", "app.hub").Str("event", string(event)).Msg("encode")
		return
	}
	err = conn.TrySend(frame)
	if err == nil {
		return
	}
	if !errors.Is(err, ErrBackpressure) {
		log.Debug().Err(err).Str("module", "app.hub").Str("to", string(to)).Msg("emit failed")
		return
	}
	switch h.policy.OnBackPressure(to) {
	case KickMember:
		log.Warn().Str("module", "app.hub").Str("sid", string(to)).Msg("slow consumer kicked")
		conn.Close()
	case DropMessage:
		log.Warn().Str("module", "app.hub").Str("sid", string(to)).Str("event", string(event)).Msg("slow consumer, message dropped")
	}
}

func (h *Hub) Members(room domain.RoomID) []core.SessionID {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Sorted(maps.Keys(h.rooms[room]))
}

func (h *Hub) Join(sid core.SessionID, room domain.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[core.SessionID]struct{})
		h.rooms[room] = members
	}
	members[sid] = struct{}{}

	rooms, ok := h.joined[sid]
	if !ok {
		rooms = make(map[domain.RoomID]struct{})
		h.joined[sid] = rooms
	}
	rooms[room] = struct{}{}
	log.Info().Str("module", "app.hub").Str("sid", string(sid)).Str("room", string(room)).Msg("member added")
}

func (h *Hub) Leave(sid core.SessionID, room domain.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(sid, room)
	if rooms, ok := h.joined[sid]; ok && len(rooms) == 0 {
		delete(h.joined, sid)
	}
}

func (h *Hub) leaveLocked(sid core.SessionID, room domain.RoomID) {
	if members, ok := h.rooms[room]; ok {
		delete(members, sid)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(h.joined[sid], room)
	log.Info().Str("module", "app.hub").Str("sid", string(sid)).Str("room", string(room)).Msg("member removed")
}

func (h *Hub) RoomsOf(sid core.SessionID) []domain.RoomID {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Sorted(maps.Keys(h.joined[sid]))
}

func (h *Hub) List() []core.RoomInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(h.rooms))
	for id, members := range h.rooms {
		out = append(out, core.RoomInfo{ID: id, MemberCount: len(members)})
	}
	slices.SortFunc(out, func(a, b core.RoomInfo) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func encode(event domain.Event, payload any) (core.Frame, error) {
	env := struct {
		Type domain.Event `json:"type"`
		Data any          `json:"data,omitempty"`
	}{Type: event, Data: payload}
	return json.Marshal(env)
}
