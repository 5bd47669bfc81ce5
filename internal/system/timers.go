package system

import (
	"time"

	coresys "github.com/questgo/server/internal/core/system"
	"github.com/questgo/server/internal/world"
)

// TimerSystem advances every world to the current time: last tick's
// events, due timers, then the pending spawns. Phase 2 (Timers).
type TimerSystem struct {
	worlds *world.Directory
	now    func() time.Time
}

// NewTimerSystem drives worlds from now; a nil clock means wall time.
func NewTimerSystem(worlds *world.Directory, now func() time.Time) *TimerSystem {
	if now == nil {
		now = time.Now
	}
	return &TimerSystem{worlds: worlds, now: now}
}

func (s *TimerSystem) Phase() coresys.Phase { return coresys.PhaseTimers }

func (s *TimerSystem) Update(_ time.Duration) {
	s.worlds.Tick(s.now())
}
