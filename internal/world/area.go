package world

import "github.com/questgo/server/internal/core/event"

// Area is a rectangle tracking its member entities. It reports the
// non-empty to empty transition once per full population cycle through an
// AreaEmptied event on the owning world's bus.
type Area struct {
	ID     int
	X, Y   int
	Width  int
	Height int
	Chest  bool

	bus      *event.Bus
	members  []*Entity
	expected int
	complete bool // every expected member has (re)spawned
}

func NewArea(id, x, y, width, height int, bus *event.Bus) *Area {
	return &Area{
		ID:       id,
		X:        x,
		Y:        y,
		Width:    width,
		Height:   height,
		bus:      bus,
		complete: true,
	}
}

// SetExpected sets the population that counts as full.
func (a *Area) SetExpected(n int) { a.expected = n }

func (a *Area) Expected() int { return a.expected }

// Add attaches e, completing the cycle when the area becomes full.
func (a *Area) Add(e *Entity) {
	if e == nil {
		return
	}
	if !a.has(e) {
		a.members = append(a.members, e)
	}
	if a.IsFull() {
		a.complete = true
	}
}

// Remove detaches e. Emptying a completed area emits AreaEmptied and
// clears the flag until the next full respawn.
func (a *Area) Remove(e *Entity) {
	for i, m := range a.members {
		if m == e {
			a.members = append(a.members[:i], a.members[i+1:]...)
			break
		}
	}
	if a.IsEmpty() && a.complete {
		a.complete = false
		event.Emit(a.bus, event.AreaEmptied{AreaID: a.ID, Chest: a.Chest})
	}
}

// IsEmpty reports whether no live member remains.
func (a *Area) IsEmpty() bool {
	for _, m := range a.members {
		if m.Alive() {
			return false
		}
	}
	return true
}

func (a *Area) IsFull() bool {
	return !a.IsEmpty() && len(a.members) == a.expected
}

// Complete reports whether the area has fully respawned since it last emptied.
func (a *Area) Complete() bool { return a.complete }

func (a *Area) Len() int { return len(a.members) }

// Contains reports whether the tile lies inside the rectangle.
func (a *Area) Contains(x, y int) bool {
	return x >= a.X && y >= a.Y && x < a.X+a.Width && y < a.Y+a.Height
}

func (a *Area) has(e *Entity) bool {
	for _, m := range a.members {
		if m == e {
			return true
		}
	}
	return false
}

// Members returns a snapshot of the member entities.
func (a *Area) Members() []*Entity {
	out := make([]*Entity, len(a.members))
	copy(out, a.members)
	return out
}
