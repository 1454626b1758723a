// Package orch routes signaling events between connections.
//
// The Orchestrator is synchronous: every call finishes all of its Emits
// before returning, and all calls are serialized on one mutex so that
// "snapshot room members, then join" is atomic with respect to other joins.
package orch

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dkeye/Talkspace/internal/app"
	"github.com/dkeye/Talkspace/internal/core"
	"github.com/dkeye/Talkspace/internal/domain"
	"github.com/rs/zerolog/log"
)

var (
	ErrUnknownEvent     = errors.New("unknown event")
	ErrMalformedPayload = errors.New("malformed payload")
	ErrNotLive          = errors.New("connection not live")
)

type Orchestrator struct {
	Registry *app.Registry
	Rooms    core.Substrate

	mu sync.Mutex
}

func New(reg *app.Registry, rooms core.Substrate) *Orchestrator {
	return &Orchestrator{Registry: reg, Rooms: rooms}
}

// Connect marks sid live. Called by the transport when it accepts a connection.
func (o *Orchestrator) Connect(sid core.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Registry.Attach(sid)
}

// Handle decodes data for event and dispatches it. Returned errors are for
// the caller's log only; nothing is reported back to the sender.
func (o *Orchestrator) Handle(sid core.SessionID, event domain.Event, data json.RawMessage) error {
	switch event {
	case domain.ActionJoin:
		var p domain.JoinPayload
		if err := decode(data, &p); err != nil {
			return err
		}
		return o.Join(sid, p)
	case domain.ActionRelayICE:
		var p domain.RelayICEPayload
		if err := decode(data, &p); err != nil {
			return err
		}
		return o.RelayICE(sid, p)
	case domain.ActionRelaySDP:
		var p domain.RelaySDPPayload
		if err := decode(data, &p); err != nil {
			return err
		}
		return o.RelaySDP(sid, p)
	case domain.ActionMute, domain.ActionUnMute:
		var p domain.MutePayload
		if err := decode(data, &p); err != nil {
			return err
		}
		return o.Mute(sid, event, p)
	case domain.ActionLeave:
		// roomId is informational; leave always tears down every room.
		var p domain.LeavePayload
		if len(data) > 0 {
			if err := json.Unmarshal(data, &p); err != nil {
				log.Debug().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("leave payload ignored")
			}
		}
		if p.RoomID != "" {
			log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("room", string(p.RoomID)).Msg("leave names a room, leaving all")
		}
		return o.Leave(sid)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}
}

func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: missing data", ErrMalformedPayload)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return nil
}

func (o *Orchestrator) checkLive(sid core.SessionID) error {
	if !o.Registry.Live(sid) {
		return fmt.Errorf("%w: %s", ErrNotLive, sid)
	}
	return nil
}

func userID(u *domain.User, ok bool) json.RawMessage {
	if !ok {
		return nil
	}
	return u.ID()
}
