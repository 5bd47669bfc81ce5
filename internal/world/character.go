package world

import (
	"github.com/questgo/server/internal/core/ecs"
	"github.com/questgo/server/internal/data"
)

// Character is the component shared by players and mobs: facing, combat
// target, hit points and who is currently attacking.
type Character struct {
	Orientation  data.Orientation
	Target       ecs.EntityID // 0 = none
	HitPoints    int
	MaxHitPoints int

	attackers *idSet
}

func newCharacter(orientation data.Orientation) *Character {
	return &Character{Orientation: orientation, attackers: newIDSet()}
}

func (c *Character) ResetHitPoints(maxHP int) {
	c.MaxHitPoints = maxHP
	c.HitPoints = maxHP
}

// RegenBy heals up to the maximum. Characters at or above max are untouched.
func (c *Character) RegenBy(v int) {
	if c.HitPoints < c.MaxHitPoints {
		c.HitPoints = min(c.HitPoints+v, c.MaxHitPoints)
	}
}

func (c *Character) HasFullHealth() bool { return c.HitPoints == c.MaxHitPoints }

func (c *Character) SetTarget(id ecs.EntityID) { c.Target = id }
func (c *Character) ClearTarget()              { c.Target = 0 }
func (c *Character) HasTarget() bool           { return c.Target != 0 }

func (c *Character) AddAttacker(id ecs.EntityID)       { c.attackers.Add(id) }
func (c *Character) RemoveAttacker(id ecs.EntityID)    { c.attackers.Remove(id) }
func (c *Character) IsAttackedBy(id ecs.EntityID) bool { return c.attackers.Has(id) }

// Attackers returns a snapshot of attacker ids.
func (c *Character) Attackers() []ecs.EntityID { return c.attackers.Slice() }
