package system

import (
	"time"

	coresys "github.com/questgo/server/internal/core/system"
	"github.com/questgo/server/internal/world"
)

// StatusPublisher receives the per-world counts served on the status route.
type StatusPublisher interface {
	SetPopulation(counts []int)
}

// TotalReporter shares the local count with other servers and reads back
// the cross-server total.
type TotalReporter interface {
	SetLocal(n int)
	Total() (int, bool)
}

// PopulationSystem publishes world populations every interval and pushes a
// fresh POPULATION to every player when the cross-server total moves.
// Phase 3 (PostUpdate).
type PopulationSystem struct {
	worlds    *world.Directory
	status    StatusPublisher
	reporter  TotalReporter // nil without shared metrics
	interval  time.Duration
	elapsed   time.Duration
	lastTotal int
}

func NewPopulationSystem(worlds *world.Directory, status StatusPublisher, reporter TotalReporter, interval time.Duration) *PopulationSystem {
	if interval <= 0 {
		interval = time.Second
	}
	s := &PopulationSystem{
		worlds:    worlds,
		status:    status,
		reporter:  reporter,
		interval:  interval,
		lastTotal: -1,
	}
	if reporter != nil {
		worlds.SetTotalSource(reporter.Total)
	}
	return s
}

func (s *PopulationSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *PopulationSystem) Update(dt time.Duration) {
	s.elapsed += dt
	if s.elapsed < s.interval {
		return
	}
	s.elapsed = 0

	if s.status != nil {
		s.status.SetPopulation(s.worlds.Populations())
	}
	if s.reporter == nil {
		return
	}
	s.reporter.SetLocal(s.worlds.TotalPlayers())
	total, ok := s.reporter.Total()
	if !ok || total == s.lastTotal {
		return
	}
	s.lastTotal = total
	s.worlds.BroadcastPopulation()
}
