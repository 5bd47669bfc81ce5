package world

import (
	"github.com/questgo/server/internal/core/ecs"
	"github.com/questgo/server/internal/core/event"
	"github.com/questgo/server/internal/data"
	"github.com/questgo/server/internal/net/packet"
	"go.uber.org/zap"
)

// Idle close reason and notice.
const (
	IdleNotice      = "timeout"
	IdleCloseReason = "Player was idle for too long"
)

// Startup equipment handed to players whose HELLO names an invalid kind.
const (
	DefaultArmor  = data.ClothArmor
	DefaultWeapon = data.Sword1
)

// Connect creates the player record for a fresh connection and arms its
// idle timer. The player is not visible until Enter.
func (w *World) Connect(conn Conn) *Entity {
	p := &Entity{
		ID:        w.playerIDs.Create(),
		Type:      TypePlayer,
		Kind:      data.Warrior,
		Character: newCharacter(data.Down),
		Player: &Player{
			Conn:   conn,
			haters: newIDSet(),
		},
	}
	w.ResetIdle(p)
	return p
}

// ResetIdle rearms the idle disconnect. On expiry the player leaves the
// world in the same callback, before any other timer can see it.
func (w *World) ResetIdle(p *Entity) {
	conn := p.Player.Conn
	p.Player.idle.Schedule(w.sched, w.opts.IdleTimeout, func() {
		conn.SendText(IdleNotice)
		conn.Close(IdleCloseReason)
		w.Disconnect(p)
	})
}

// Enter places p in the world after a valid HELLO. name must already be
// sanitized. Invalid equipment falls back to the defaults.
func (w *World) Enter(p *Entity, name string, armor, weapon data.Kind) {
	pl := p.Player
	pl.Name = name
	if armor.ArmorRank() < 0 {
		armor = DefaultArmor
	}
	if weapon.WeaponRank() < 0 {
		weapon = DefaultWeapon
	}
	pl.EquipArmor(armor)
	pl.EquipWeapon(weapon)
	p.Character.Orientation = randomOrientation(w.rng)
	w.updateHitPoints(p)
	x, y := w.requestPosition(p)
	p.SetPosition(x, y)

	w.addPlayer(p)
	p.Player.Conn.Send(packet.Welcome{
		ID:        int(p.ID),
		Name:      pl.Name,
		X:         p.X,
		Y:         p.Y,
		HitPoints: p.Character.HitPoints,
	})

	if !pl.Entered {
		w.playerCount++
	}
	pl.Entered = true
	pl.Dead = false
	w.PushRelevantEntityListTo(p)
	w.updatePopulation()
	event.Emit(w.bus, event.PlayerEntered{PlayerID: int(p.ID), Name: pl.Name})
}

func (w *World) requestPosition(p *Entity) (int, int) {
	if cp := p.Player.LastCheckpoint; cp != nil {
		if x, y, ok := w.m.RandomPositionIn(cp, w.rng); ok {
			return x, y
		}
	}
	x, y, ok := w.m.RandomStartingPosition(w.rng)
	if !ok {
		w.log.Warn("找不到出生點", zap.Int("player", int(p.ID)))
	}
	return x, y
}

func (w *World) updateHitPoints(p *Entity) {
	p.Character.ResetHitPoints(w.formulas.HitPoints(p.Player.ArmorLevel))
}

func (w *World) addPlayer(p *Entity) {
	w.addEntity(p)
	w.players.Set(p.ID, p)
}

// broadcast sends m to the groups around p, never back to p.
func (w *World) broadcast(p *Entity, m packet.Message) {
	w.pushToAdjacent(p, m, p.ID)
}

// Move walks p to (x, y). Invalid targets are ignored.
func (w *World) Move(p *Entity, x, y int) bool {
	if !w.IsValidPosition(x, y) {
		return false
	}
	p.SetPosition(x, y)
	p.Character.ClearTarget()
	w.broadcast(p, packet.Move{ID: int(p.ID), X: x, Y: y})
	w.followPlayer(p)
	return true
}

// LootMove walks p onto an item it intends to pick up.
func (w *World) LootMove(p *Entity, x, y int, itemID ecs.EntityID) bool {
	item, ok := w.items.Get(itemID)
	if !ok || !w.IsValidPosition(x, y) {
		return false
	}
	p.SetPosition(x, y)
	p.Character.ClearTarget()
	w.broadcast(p, packet.LootMove{ID: int(p.ID), ItemID: int(item.ID)})
	w.followPlayer(p)
	return true
}

// aggroHate is the hate a mob gains on noticing a player.
const aggroHate = 5

func (w *World) Aggro(p *Entity, mobID ecs.EntityID) {
	w.HandleMobHate(mobID, p.ID, aggroHate)
}

// Attack records p's target and announces it.
func (w *World) Attack(p *Entity, mobID ecs.EntityID) {
	mob, ok := w.mobs.Get(mobID)
	if !ok {
		return
	}
	p.Character.SetTarget(mob.ID)
	w.broadcast(p, packet.Attack{AttackerID: int(p.ID), TargetID: int(mob.ID)})
}

// Hit resolves a blow from p on a mob.
func (w *World) Hit(p *Entity, mobID ecs.EntityID) {
	mob, ok := w.mobs.Get(mobID)
	if !ok {
		return
	}
	dmg := w.formulas.Damage(p.Player.WeaponLevel, mob.Mob.ArmorLevel)
	if dmg <= 0 {
		return
	}
	mob.Character.HitPoints -= dmg
	w.HandleMobHate(mob.ID, p.ID, dmg)
	w.HandleHurtEntity(mob, p, dmg)
}

// Hurt resolves a blow from a mob on p.
func (w *World) Hurt(p *Entity, mobID ecs.EntityID) {
	mob, ok := w.mobs.Get(mobID)
	if !ok || p.Character.HitPoints <= 0 {
		return
	}
	dmg := w.formulas.Damage(mob.Mob.WeaponLevel, p.Player.ArmorLevel)
	p.Character.HitPoints -= dmg
	w.HandleHurtEntity(p, nil, dmg)
	if p.Character.HitPoints <= 0 {
		p.Player.Dead = true
		p.Player.potion.Cancel()
	}
}

// Chat relays text to p's own zone, p included.
func (w *World) Chat(p *Entity, text string) {
	if !p.InGroup {
		return
	}
	w.PushToGroup(p.Group, packet.Chat{PlayerID: int(p.ID), Text: text}, 0)
}

// Loot consumes an item lying on the map.
func (w *World) Loot(p *Entity, itemID ecs.EntityID) {
	item, ok := w.items.Get(itemID)
	if !ok || !item.Kind.IsItem() {
		return
	}
	kind := item.Kind
	w.broadcast(p, packet.Despawn{ID: int(item.ID)})
	w.removeEntity(item)

	switch {
	case kind == data.Firepotion:
		w.drinkFirepotion(p)
	case kind.IsHealingItem():
		if !p.Character.HasFullHealth() {
			p.Character.RegenBy(kind.HealAmount())
			w.PushToPlayer(p, packet.Health{Points: p.Character.HitPoints})
		}
	case kind.IsArmor():
		p.Player.EquipArmor(kind)
		w.updateHitPoints(p)
		w.PushToPlayer(p, packet.HitPoints{Max: p.Character.MaxHitPoints})
		w.broadcast(p, packet.Equip{PlayerID: int(p.ID), Kind: int(kind)})
	case kind.IsWeapon():
		p.Player.EquipWeapon(kind)
		w.broadcast(p, packet.Equip{PlayerID: int(p.ID), Kind: int(kind)})
	}
}

// drinkFirepotion shows p as a firefox for PotionDuration. A second potion
// restarts the countdown.
func (w *World) drinkFirepotion(p *Entity) {
	w.updateHitPoints(p)
	w.broadcast(p, packet.Equip{PlayerID: int(p.ID), Kind: int(data.Firefox)})
	p.Player.potion.Schedule(w.sched, w.opts.PotionDuration, func() {
		w.broadcast(p, packet.Equip{PlayerID: int(p.ID), Kind: int(p.Player.Armor)})
	})
	w.PushToPlayer(p, packet.HitPoints{Max: p.Character.MaxHitPoints})
}

// Teleport jumps p to (x, y); mobs chasing p give up.
func (w *World) Teleport(p *Entity, x, y int) bool {
	if !w.IsValidPosition(x, y) {
		return false
	}
	p.SetPosition(x, y)
	p.Character.ClearTarget()
	w.broadcast(p, packet.Teleport{ID: int(p.ID), X: x, Y: y})
	w.HandlePlayerVanish(p)
	w.PushRelevantEntityListTo(p)
	return true
}

// Zone refreshes p's groups after it crossed a zone border.
func (w *World) Zone(p *Entity) bool {
	if !w.handleEntityGroupMembership(p) {
		return false
	}
	w.pushToPreviousGroups(p, packet.Destroy{ID: int(p.ID)})
	w.PushRelevantEntityListTo(p)
	return true
}

// Who answers a WHO query.
func (w *World) Who(p *Entity, ids []ecs.EntityID) {
	w.PushSpawnsToPlayer(p, ids)
}

// Open opens a chest and drops one of its items in place.
func (w *World) Open(p *Entity, chestID ecs.EntityID) {
	chest, ok := w.items.Get(chestID)
	if !ok || !chest.Kind.IsChest() {
		return
	}
	w.pushToAdjacent(chest, packet.Despawn{ID: int(chest.ID)}, 0)
	w.removeEntity(chest)
	contents := chest.Item.Contents
	if len(contents) == 0 {
		return
	}
	kind := contents[w.rng.Intn(len(contents))]
	item := w.addItemFromChest(kind, chest.X, chest.Y)
	w.handleItemDespawn(item)
	w.log.Debug("開啟寶箱", zap.Int("player", int(p.ID)), zap.String("item", kind.String()))
}

// Check records the checkpoint p respawns from. Unknown ids are ignored.
func (w *World) Check(p *Entity, checkpointID int) {
	if cp, ok := w.m.Checkpoint(checkpointID); ok {
		p.Player.LastCheckpoint = cp
	}
}

// Disconnect tears p down: timers first, then world state.
func (w *World) Disconnect(p *Entity) {
	p.Player.cancelTimers()
	if !p.Player.Entered {
		return
	}
	if !p.Player.Dead {
		w.HandlePlayerVanish(p)
		w.broadcast(p, packet.Despawn{ID: int(p.ID)})
	}
	w.removeEntity(p)
	w.players.Remove(p.ID)
	p.Player.Entered = false
	w.playerCount--
	w.updatePopulation()
	event.Emit(w.bus, event.PlayerLeft{PlayerID: int(p.ID), Name: p.Player.Name})
}
