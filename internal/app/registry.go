package app

import (
	"sync"

	"github.com/dkeye/Talkspace/internal/core"
	"github.com/dkeye/Talkspace/internal/domain"
	"github.com/rs/zerolog/log"
)

// Registry maps live connections to the user they joined with.
// A connection is live between Attach and Detach; only live connections
// may carry a user.
type Registry struct {
	mu    sync.RWMutex
	live  map[core.SessionID]struct{}
	users map[core.SessionID]*domain.User
}

func NewRegistry() *Registry {
	return &Registry{
		live:  make(map[core.SessionID]struct{}),
		users: make(map[core.SessionID]*domain.User),
	}
}

func (r *Registry) Attach(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.live[sid] = struct{}{}
	log.Debug().Str("module", "app.registry").Str("sid", string(sid)).Msg("attached")
}

// Detach marks sid gone and drops its user. It reports false when sid was
// not live, i.e. the teardown already happened.
func (r *Registry) Detach(sid core.SessionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.live[sid]; !ok {
		return false
	}
	delete(r.live, sid)
	delete(r.users, sid)
	log.Debug().Str("module", "app.registry").Str("sid", string(sid)).Msg("detached")
	return true
}

func (r *Registry) Live(sid core.SessionID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.live[sid]
	return ok
}

// SetUser inserts or overwrites the user of sid. Ignored if sid is not live.
func (r *Registry) SetUser(sid core.SessionID, u *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.live[sid]; !ok {
		log.Warn().Str("module", "app.registry").Str("sid", string(sid)).Msg("set user on dead connection ignored")
		return
	}
	r.users[sid] = u
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).RawJSON("user_id", idOrNull(u)).Msg("set user")
}

// GetUser returns the user of sid. A missing user is a normal state.
func (r *Registry) GetUser(sid core.SessionID) (*domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[sid]
	return u, ok
}

// Remove deletes the user of sid. Removing an absent entry is a no-op.
func (r *Registry) Remove(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[sid]; !ok {
		return
	}
	delete(r.users, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("removed user")
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

func idOrNull(u *domain.User) []byte {
	if id := u.ID(); len(id) > 0 {
		return id
	}
	return []byte("null")
}
