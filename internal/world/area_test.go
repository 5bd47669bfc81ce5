package world

import (
	"testing"

	"github.com/questgo/server/internal/core/event"
)

func drain(bus *event.Bus) {
	bus.SwapBuffers()
	bus.DispatchAll()
}

func TestAreaEmptiedOncePerCycle(t *testing.T) {
	bus := event.NewBus()
	fired := 0
	event.Subscribe(bus, func(event.AreaEmptied) { fired++ })

	a := NewArea(3, 0, 0, 5, 5, bus)
	a.SetExpected(2)
	m1 := &Entity{ID: 1, Mob: &Mob{}}
	m2 := &Entity{ID: 2, Mob: &Mob{}}

	a.Add(m1)
	a.Add(m2)
	a.Remove(m1)
	drain(bus)
	if fired != 0 {
		t.Fatalf("expected no event while a member remains, got %d", fired)
	}
	a.Remove(m2)
	drain(bus)
	if fired != 1 {
		t.Fatalf("expected 1 event after emptying, got %d", fired)
	}

	// partial respawn does not re-arm the callback
	a.Add(m1)
	a.Remove(m1)
	drain(bus)
	if fired != 1 {
		t.Fatalf("expected no event before a full respawn, got %d", fired)
	}

	a.Add(m1)
	a.Add(m2)
	if !a.Complete() {
		t.Fatal("expected area complete after full respawn")
	}
	a.Remove(m2)
	a.Remove(m1)
	drain(bus)
	if fired != 2 {
		t.Fatalf("expected exactly one more event, got %d", fired)
	}
}

func TestAreaEmptinessIsLiveness(t *testing.T) {
	a := NewArea(0, 0, 0, 5, 5, event.NewBus())
	a.SetExpected(2)
	m1 := &Entity{ID: 1, Mob: &Mob{}}
	m2 := &Entity{ID: 2, Mob: &Mob{}}
	a.Add(m1)
	a.Add(m2)
	if !a.IsFull() {
		t.Fatal("expected full area")
	}
	m1.Mob.Dead = true
	m2.Mob.Dead = true
	if !a.IsEmpty() {
		t.Fatal("an area of corpses must count as empty")
	}
	if a.IsFull() {
		t.Fatal("an empty area is never full")
	}
}

func TestAreaContainsIsHalfOpen(t *testing.T) {
	a := NewArea(0, 10, 10, 4, 2, event.NewBus())
	cases := []struct {
		x, y int
		want bool
	}{
		{10, 10, true},
		{13, 11, true},
		{14, 10, false},
		{10, 12, false},
		{9, 10, false},
	}
	for _, c := range cases {
		if got := a.Contains(c.x, c.y); got != c.want {
			t.Errorf("Contains(%d, %d): expected %v, got %v", c.x, c.y, c.want, got)
		}
	}
}

func TestHatelistRanking(t *testing.T) {
	var h Hatelist
	h.Increase(1, 5)
	h.Increase(2, 5)
	h.Increase(3, 2)
	if id, _ := h.Ranked(1); id != 1 {
		t.Fatalf("expected earliest of the tied ids, got %d", id)
	}
	if id, _ := h.Ranked(2); id != 2 {
		t.Fatalf("expected id 2 at rank 2, got %d", id)
	}
	if id, _ := h.Ranked(3); id != 3 {
		t.Fatalf("expected id 3 at rank 3, got %d", id)
	}
	if id, _ := h.Ranked(9); id != 1 {
		t.Fatalf("expected out-of-range rank to pick the most hated, got %d", id)
	}
	h.Increase(3, 10)
	if id, _ := h.Ranked(0); id != 3 {
		t.Fatalf("expected accumulated hate to win, got %d", id)
	}
	if h.HateFor(3) != 12 {
		t.Fatalf("expected hate 12, got %d", h.HateFor(3))
	}
	if !h.Forget(3) || h.Forget(3) {
		t.Fatal("Forget should report presence exactly once")
	}
	var empty Hatelist
	if _, ok := empty.Ranked(1); ok {
		t.Fatal("empty hatelist has no ranked id")
	}
}
