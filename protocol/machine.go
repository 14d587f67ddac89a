package protocol

import (
	"context"

	"github.com/looplab/fsm"
	log "github.com/sirupsen/logrus"
)

// Lifecycle states of a connection
const (
	Disconnected = "disconnected"
	Connected    = "connected"
	Closed       = "closed"
)

// Lifecycle events
const (
	connectEvent = "connect"
	closeEvent   = "close"
)

var transitions = fsm.Events{
	{Name: connectEvent, Src: []string{Disconnected}, Dst: Connected},
	{Name: closeEvent, Src: []string{Disconnected, Connected}, Dst: Closed},
}

func newConnFSM(tag func() string) *fsm.FSM {
	return fsm.NewFSM(Disconnected, transitions, fsm.Callbacks{
		"enter_state": func(_ context.Context, e *fsm.Event) {
			log.Debugf("connection %s: %s -> %s", tag(), e.Src, e.Dst)
		},
	})
}
