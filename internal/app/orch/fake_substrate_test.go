package orch

import (
	"maps"
	"slices"
	"sync"

	"github.com/dkeye/Talkspace/internal/core"
	"github.com/dkeye/Talkspace/internal/domain"
)

type emitted struct {
	To      core.SessionID
	Event   domain.Event
	Payload any
}

// fakeSubstrate records every Emit and keeps room membership in memory.
type fakeSubstrate struct {
	mu     sync.Mutex
	rooms  map[domain.RoomID]map[core.SessionID]struct{}
	events []emitted
}

func newFakeSubstrate() *fakeSubstrate {
	return &fakeSubstrate{rooms: make(map[domain.RoomID]map[core.SessionID]struct{})}
}

func (f *fakeSubstrate) Emit(to core.SessionID, event domain.Event, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, emitted{To: to, Event: event, Payload: payload})
}

func (f *fakeSubstrate) Members(room domain.RoomID) []core.SessionID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Sorted(maps.Keys(f.rooms[room]))
}

func (f *fakeSubstrate) Join(sid core.SessionID, room domain.RoomID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rooms[room] == nil {
		f.rooms[room] = make(map[core.SessionID]struct{})
	}
	f.rooms[room][sid] = struct{}{}
}

func (f *fakeSubstrate) Leave(sid core.SessionID, room domain.RoomID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rooms[room], sid)
	if len(f.rooms[room]) == 0 {
		delete(f.rooms, room)
	}
}

func (f *fakeSubstrate) RoomsOf(sid core.SessionID) []domain.RoomID {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.RoomID
	for room, members := range f.rooms {
		if _, ok := members[sid]; ok {
			out = append(out, room)
		}
	}
	slices.Sort(out)
	return out
}

// take returns and clears the recorded events.
func (f *fakeSubstrate) take() []emitted {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.events
	f.events = nil
	return out
}

func eventsTo(events []emitted, to core.SessionID) []emitted {
	var out []emitted
	for _, e := range events {
		if e.To == to {
			out = append(out, e)
		}
	}
	return out
}
