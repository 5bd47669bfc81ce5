package world

import (
	"math/rand"

	"github.com/questgo/server/internal/core/ecs"
	"github.com/questgo/server/internal/data"
)

// EntityType tags the broad family of an entity.
type EntityType int

const (
	TypePlayer EntityType = iota + 1
	TypeMob
	TypeNpc
	TypeItem
)

func (t EntityType) String() string {
	switch t {
	case TypePlayer:
		return "player"
	case TypeMob:
		return "mob"
	case TypeNpc:
		return "npc"
	case TypeItem:
		return "item"
	}
	return "unknown"
}

// Id bands. Each entity type draws from its own range.
const (
	mobIDBase    ecs.EntityID = 100_000_000
	npcIDBase    ecs.EntityID = 200_000_000
	itemIDBase   ecs.EntityID = 300_000_000
	playerIDBase ecs.EntityID = 500_000_000
	idBandSize   ecs.EntityID = 100_000_000
)

// Entity is the common record of everything placed on the map. Optional
// components carry the per-type state; a nil component means the
// capability is absent.
// Accessed only from the game loop goroutine, no locks.
type Entity struct {
	ID   ecs.EntityID
	Type EntityType
	Kind data.Kind
	X, Y int

	Group   data.GroupID
	InGroup bool

	// groups left on the last membership change, players only
	recentlyLeft []data.GroupID

	Character *Character // players and mobs
	Mob       *Mob
	Player    *Player
	Item      *Item
}

func (e *Entity) SetPosition(x, y int) {
	e.X, e.Y = x, y
}

// Alive reports whether the entity counts toward its area's population.
func (e *Entity) Alive() bool {
	return e.Mob == nil || !e.Mob.Dead
}

// State is the value list carried by a SPAWN message.
func (e *Entity) State() []any {
	state := []any{int(e.ID), int(e.Kind), e.X, e.Y}
	switch {
	case e.Player != nil:
		state = append(state, e.Player.Name, int(e.Character.Orientation), int(e.Player.Armor), int(e.Player.Weapon))
		if e.Character.HasTarget() {
			state = append(state, int(e.Character.Target))
		}
	case e.Character != nil:
		state = append(state, int(e.Character.Orientation))
		if e.Character.HasTarget() {
			state = append(state, int(e.Character.Target))
		}
	}
	return state
}

// positionNextTo returns one of the four tiles orthogonally adjacent to target.
func positionNextTo(target *Entity, rng *rand.Rand) (int, int) {
	x, y := target.X, target.Y
	switch rng.Intn(4) {
	case 0:
		y--
	case 1:
		y++
	case 2:
		x--
	case 3:
		x++
	}
	return x, y
}

// distance is the Chebyshev distance between two tiles.
func distance(x1, y1, x2, y2 int) int {
	dx, dy := x1-x2, y1-y2
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return max(dx, dy)
}

func randomOrientation(rng *rand.Rand) data.Orientation {
	return data.Orientations[rng.Intn(len(data.Orientations))]
}
