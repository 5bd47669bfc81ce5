package world

import (
	"time"

	"github.com/questgo/server/internal/core/ecs"
	"github.com/questgo/server/internal/core/event"
	"github.com/questgo/server/internal/net/packet"
	"go.uber.org/zap"
)

// vanishForgetDelay is how long a mob waits before walking home after its
// target died or teleported away.
const vanishForgetDelay = time.Second

// maxChaseAttempts bounds the search for a free tile next to a target.
const maxChaseAttempts = 10

// HandleMobHate adds hate from player to mob and retargets the mob.
func (w *World) HandleMobHate(mobID, playerID ecs.EntityID, points int) {
	mob, ok := w.mobs.Get(mobID)
	if !ok {
		return
	}
	player, ok := w.players.Get(playerID)
	if !ok {
		return
	}
	w.IncreaseHate(mob, playerID, points)
	player.Player.AddHater(mobID)
	if mob.Character.HitPoints > 0 {
		w.ChooseMobTarget(mob, 0)
	}
}

// ChooseMobTarget points mob at the player of the given hate rank
// (0 = most hated) unless it already attacks them.
func (w *World) ChooseMobTarget(mob *Entity, rank int) {
	id, ok := mob.Mob.Hate.Ranked(rank)
	if !ok {
		return
	}
	player, ok := w.players.Get(id)
	if !ok || player.Character.IsAttackedBy(mob.ID) {
		return
	}
	w.clearMobAggroLink(mob)
	player.Character.AddAttacker(mob.ID)
	mob.Character.SetTarget(player.ID)
	w.pushToAdjacent(mob, packet.Attack{AttackerID: int(mob.ID), TargetID: int(player.ID)}, mob.ID)
	w.log.Debug("怪物鎖定目標", zap.Int("mob", int(mob.ID)), zap.Int("player", int(player.ID)))
}

// clearMobAggroLink detaches mob from the player it is attacking.
func (w *World) clearMobAggroLink(mob *Entity) {
	if !mob.Character.HasTarget() {
		return
	}
	if player, ok := w.players.Get(mob.Character.Target); ok {
		player.Character.RemoveAttacker(mob.ID)
	}
}

// clearMobHateLinks removes mob from every hater set that holds it.
func (w *World) clearMobHateLinks(mob *Entity) {
	for _, id := range mob.Mob.Hate.IDs() {
		if player, ok := w.players.Get(ecs.EntityID(id)); ok {
			player.Player.RemoveHater(mob.ID)
		}
	}
}

// HandleHurtEntity reports damage on e and resolves a death. attacker is
// the player who dealt it, nil for damage taken by a player.
func (w *World) HandleHurtEntity(e, attacker *Entity, damage int) {
	switch {
	case e.Player != nil:
		w.PushToPlayer(e, packet.Health{Points: e.Character.HitPoints})
	case e.Mob != nil && attacker != nil:
		w.PushToPlayer(attacker, packet.Damage{ID: int(e.ID), Points: damage})
	}

	if e.Character.HitPoints > 0 {
		return
	}
	switch {
	case e.Mob != nil:
		w.killMob(e, attacker)
	case e.Player != nil:
		w.HandlePlayerVanish(e)
		w.pushToAdjacent(e, packet.Despawn{ID: int(e.ID)}, 0)
	}
	w.removeEntity(e)
}

func (w *World) killMob(mob, attacker *Entity) {
	var item *Entity
	if kind, ok := w.props.RollDrop(mob.Kind, w.rng); ok {
		item = w.addItem(w.createItem(kind, mob.X, mob.Y))
	}
	if attacker != nil {
		w.PushToPlayer(attacker, packet.Kill{MobKind: int(mob.Kind)})
		event.Emit(w.bus, event.MobKilled{MobID: int(mob.ID), Kind: int(mob.Kind), PlayerID: int(attacker.ID)})
	}
	w.pushToAdjacent(mob, packet.Despawn{ID: int(mob.ID)}, 0)
	if item != nil {
		w.pushToAdjacent(mob, packet.Drop{
			MobID:  int(mob.ID),
			ItemID: int(item.ID),
			Kind:   int(item.Kind),
			Haters: mob.Mob.Hate.IDs(),
		}, 0)
		w.handleItemDespawn(item)
	}
}

// HandlePlayerVanish makes every mob attacking p look for another target,
// or forget p and head home shortly after.
func (w *World) HandlePlayerVanish(p *Entity) {
	attackers := p.Character.Attackers()
	for _, id := range attackers {
		if mob, ok := w.mobs.Get(id); ok {
			w.ChooseMobTarget(mob, 2)
		}
	}
	for _, id := range attackers {
		mob, ok := w.mobs.Get(id)
		if !ok {
			continue
		}
		p.Character.RemoveAttacker(mob.ID)
		mob.Character.ClearTarget()
		w.ForgetPlayer(mob, p.ID, vanishForgetDelay)
	}
	w.handleEntityGroupMembership(p)
}

// followPlayer drags every mob attacking p next to it, unless that takes
// the mob past the chase limit from its spawn.
func (w *World) followPlayer(p *Entity) {
	for _, id := range p.Character.Attackers() {
		mob, ok := w.mobs.Get(id)
		if !ok || !mob.Character.HasTarget() {
			continue
		}
		target, ok := w.players.Get(mob.Character.Target)
		if !ok {
			continue
		}
		x, y := w.positionNextTo(target)
		if distance(x, y, mob.Mob.SpawnX, mob.Mob.SpawnY) > w.opts.ChaseLimit {
			mob.Character.ClearTarget()
			w.ForgetEveryone(mob)
			p.Character.RemoveAttacker(mob.ID)
			continue
		}
		w.moveEntity(mob, x, y)
	}
}

func (w *World) positionNextTo(target *Entity) (int, int) {
	x, y := positionNextTo(target, w.rng)
	for i := 1; i < maxChaseAttempts && !w.IsValidPosition(x, y); i++ {
		x, y = positionNextTo(target, w.rng)
	}
	return x, y
}

// moveEntity repositions e without announcing it; clients infer follow
// moves from the ATTACK they already saw.
func (w *World) moveEntity(e *Entity, x, y int) {
	e.SetPosition(x, y)
	w.handleEntityGroupMembership(e)
}

// handleItemDespawn starts the blink-then-destroy countdown of a loose item.
func (w *World) handleItemDespawn(item *Entity) {
	it := item.Item
	it.blink.Schedule(w.sched, w.opts.ItemBlinkDelay, func() {
		w.pushToAdjacent(item, packet.Blink{ItemID: int(item.ID)}, 0)
		it.despawn.Schedule(w.sched, w.opts.ItemBlinkDuration, func() {
			w.pushToAdjacent(item, packet.Destroy{ID: int(item.ID)}, 0)
			w.removeEntity(item)
		})
	})
}
