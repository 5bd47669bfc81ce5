package system

import (
	"time"

	coresys "github.com/questgo/server/internal/core/system"
	"github.com/questgo/server/internal/net"
)

// OutputSystem flushes every session's buffered messages once per tick, so
// everything a tick produced for one client leaves as a single frame.
// Phase 4 (Output).
type OutputSystem struct {
	store *net.SessionStore
}

func NewOutputSystem(store *net.SessionStore) *OutputSystem {
	return &OutputSystem{store: store}
}

func (s *OutputSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *OutputSystem) Update(_ time.Duration) {
	s.store.ForEach(func(sess *net.Session) {
		sess.FlushOutput()
	})
}
