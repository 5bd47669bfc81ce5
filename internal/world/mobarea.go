package world

import (
	"time"

	"github.com/questgo/server/internal/core/timer"
	"github.com/questgo/server/internal/data"
	"go.uber.org/zap"
)

// roamChance is the per-tick 1-in-N chance for an idle mob to wander.
const roamChance = 20

// MobArea owns a fixed-size roaming population of one mob kind.
type MobArea struct {
	*Area
	Kind data.Kind
	Size int

	world *World
	roam  *timer.Task
}

func newMobArea(w *World, info data.RoamingArea, kind data.Kind) *MobArea {
	a := &MobArea{
		Area:  NewArea(info.ID, info.X, info.Y, info.Width, info.Height, w.bus),
		Kind:  kind,
		Size:  info.Nb,
		world: w,
	}
	a.SetExpected(info.Nb)
	return a
}

// randomPosition rejection-samples a walkable tile inside the area, edges
// included. It gives up after maxPlacementAttempts and returns the origin.
func (a *MobArea) randomPosition() (int, int, bool) {
	return a.world.randomPositionIn(a.X, a.Y, a.Width+1, a.Height+1)
}

// SpawnMobs creates the full population at independent random positions.
func (a *MobArea) SpawnMobs() {
	for i := 0; i < a.Size; i++ {
		x, y, ok := a.randomPosition()
		if !ok {
			a.world.log.Warn("區域內找不到可行走位置",
				zap.Int("area", a.ID),
				zap.String("kind", a.Kind.String()),
			)
		}
		mob := a.world.createMob(a.Kind, x, y)
		mob.Mob.area = a
		a.add(mob)
	}
}

func (a *MobArea) add(mob *Entity) {
	a.Add(mob)
	a.world.addMob(mob)
}

// RespawnMob detaches mob now and brings it back after delay at a fresh
// random position.
func (a *MobArea) RespawnMob(mob *Entity, delay time.Duration) {
	a.Remove(mob)
	mob.Mob.respawn.Schedule(a.world.sched, delay, func() {
		x, y, _ := a.randomPosition()
		mob.SetPosition(x, y)
		mob.Mob.Dead = false
		a.add(mob)
	})
}

// InitRoaming starts the periodic wander roll for every member.
func (a *MobArea) InitRoaming(interval time.Duration) {
	if a.roam != nil {
		a.roam.Cancel()
	}
	a.roam = a.world.sched.Every(interval, a.roamTick)
}

func (a *MobArea) roamTick() {
	for _, mob := range a.Members() {
		if a.world.rng.Intn(roamChance) != 1 {
			continue
		}
		if mob.Character.HasTarget() || mob.Mob.Dead {
			continue
		}
		x, y, ok := a.randomPosition()
		if !ok {
			continue
		}
		mob.SetPosition(x, y)
		a.world.onMobMove(mob)
	}
}

// CreateReward picks a random in-area position for a chest.
func (a *MobArea) CreateReward() (x, y int, kind data.Kind) {
	x, y, _ = a.randomPosition()
	return x, y, data.Chest
}

// StopRoaming cancels the wander ticker.
func (a *MobArea) StopRoaming() {
	a.roam.Cancel()
	a.roam = nil
}
