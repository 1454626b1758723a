package app

import (
	"fmt"

	"github.com/dkeye/Talkspace/internal/core"
)

type BackpressureAction int

const (
	DropMessage BackpressureAction = iota
	KickMember
)

// Policy decides what happens to a connection whose send buffer is full.
type Policy interface {
	OnBackPressure(sid core.SessionID) BackpressureAction
}

// SimplePolicy applies the same action to every slow connection.
type SimplePolicy struct {
	Action BackpressureAction
}

func (p SimplePolicy) OnBackPressure(core.SessionID) BackpressureAction {
	return p.Action
}

// PolicyFromString maps the slow_consumer config value to a Policy.
func PolicyFromString(s string) (Policy, error) {
	switch s {
	case "", "drop":
		return SimplePolicy{Action: DropMessage}, nil
	case "kick":
		return SimplePolicy{Action: KickMember}, nil
	default:
		return nil, fmt.Errorf("unknown slow consumer policy %q", s)
	}
}
