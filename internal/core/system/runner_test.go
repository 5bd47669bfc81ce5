package system

import (
	"testing"
	"time"
)

type recorder struct {
	name  string
	phase Phase
	log   *[]string
}

func (r recorder) Phase() Phase            { return r.phase }
func (r recorder) Update(_ time.Duration) { *r.log = append(*r.log, r.name) }

func TestRunnerPhaseOrder(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recorder{"out", PhaseOutput, &log})
	r.Register(recorder{"in", PhaseInput, &log})
	r.Register(recorder{"timers-a", PhaseTimers, &log})
	r.Register(recorder{"timers-b", PhaseTimers, &log})

	r.Tick(time.Millisecond)
	want := []string{"in", "timers-a", "timers-b", "out"}
	if len(log) != len(want) {
		t.Fatalf("expected %v, got %v", want, log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, log)
		}
	}
}

func TestRunnerTickPhase(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recorder{"in", PhaseInput, &log})
	r.Register(recorder{"out", PhaseOutput, &log})
	r.TickPhase(PhaseInput, 0)
	if len(log) != 1 || log[0] != "in" {
		t.Fatalf("expected only input, got %v", log)
	}
}
