package world

import (
	"time"

	"github.com/questgo/server/internal/core/ecs"
	"github.com/questgo/server/internal/core/timer"
	"github.com/questgo/server/internal/net/packet"
	"go.uber.org/zap"
)

// Mob is the hostility component: stats, spawn origin, hatelist and the
// two lifecycle timers. Each timer lives in a Slot, so rescheduling always
// invalidates the previous callback.
type Mob struct {
	ArmorLevel  int
	WeaponLevel int
	SpawnX      int
	SpawnY      int
	Hate        Hatelist
	Dead        bool

	area      *MobArea   // roaming population owner
	chestArea *ChestArea // static mob guarding a chest area
	static    bool       // placed from the map's static entity list

	respawn   timer.Slot
	returning timer.Slot
}

// ReturnPending reports whether a walk back to spawn is scheduled.
func (m *Mob) ReturnPending() bool { return m.returning.Pending() }

// RespawnPending reports whether the mob is waiting to respawn.
func (m *Mob) RespawnPending() bool { return m.respawn.Pending() }

// forgetEveryoneDelay puts the return on the next scheduler step.
const forgetEveryoneDelay = time.Millisecond

// IncreaseHate accumulates hate and cancels a pending return to spawn.
func (w *World) IncreaseHate(mob *Entity, playerID ecs.EntityID, points int) {
	mob.Mob.Hate.Increase(playerID, points)
	mob.Mob.returning.Cancel()
}

// ForgetPlayer drops playerID from the hatelist. When that empties the list
// the mob walks back to spawn after delay (0 = default return delay).
// Forgetting an id that is not hated does nothing.
func (w *World) ForgetPlayer(mob *Entity, playerID ecs.EntityID, delay time.Duration) {
	if !mob.Mob.Hate.Forget(playerID) {
		return
	}
	if mob.Mob.Hate.Len() == 0 {
		w.returnToSpawn(mob, delay)
	}
}

// ForgetEveryone clears the hatelist and returns on the next step.
func (w *World) ForgetEveryone(mob *Entity) {
	mob.Mob.Hate.Clear()
	w.returnToSpawn(mob, forgetEveryoneDelay)
}

func (w *World) returnToSpawn(mob *Entity, delay time.Duration) {
	if delay <= 0 {
		delay = w.opts.ReturnDelay
	}
	mob.Character.ClearTarget()
	mob.Mob.returning.Schedule(w.sched, delay, func() {
		if mob.Mob.Dead {
			return
		}
		mob.SetPosition(mob.Mob.SpawnX, mob.Mob.SpawnY)
		w.onMobMove(mob)
	})
}

// onMobMove announces a mob's new position and refreshes its groups.
func (w *World) onMobMove(mob *Entity) {
	w.pushToAdjacent(mob, packet.Move{ID: int(mob.ID), X: mob.X, Y: mob.Y}, 0)
	w.handleEntityGroupMembership(mob)
}

// destroyMob resets a dead mob to its spawn state and hands it to whoever
// owns its respawn.
func (w *World) destroyMob(mob *Entity) {
	m := mob.Mob
	m.Dead = true
	m.Hate.Clear()
	m.returning.Cancel()
	mob.Character.ClearTarget()
	mob.Character.ResetHitPoints(w.props.HitPoints(mob.Kind))
	mob.SetPosition(m.SpawnX, m.SpawnY)

	switch {
	case m.area != nil:
		m.area.RespawnMob(mob, w.opts.RespawnDelay)
	case m.static:
		if m.chestArea != nil {
			m.chestArea.Remove(mob)
		}
		m.respawn.Schedule(w.sched, w.opts.RespawnDelay, func() {
			m.Dead = false
			w.addMob(mob)
			if m.chestArea != nil {
				m.chestArea.Add(mob)
			}
		})
	default:
		w.log.Debug("怪物永久移除", zap.Int("mob", int(mob.ID)))
	}
}
