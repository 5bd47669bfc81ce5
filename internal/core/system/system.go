package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: accept sessions, drain message queues
	PhaseEvents                  // 1: deliver last tick's world events
	PhaseTimers                  // 2: fire due respawn / roam / idle / buff timers
	PhasePostUpdate              // 3: population bookkeeping
	PhaseOutput                  // 4: flush buffered messages to the writers
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhaseEvents:
		return "events"
	case PhaseTimers:
		return "timers"
	case PhasePostUpdate:
		return "post-update"
	case PhaseOutput:
		return "output"
	default:
		return "unknown"
	}
}

// System is the interface every game-loop system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
