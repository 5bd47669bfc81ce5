package world

import (
	"github.com/questgo/server/internal/core/ecs"
	"github.com/questgo/server/internal/core/timer"
	"github.com/questgo/server/internal/data"
	"github.com/questgo/server/internal/net/packet"
)

// Conn is the outbound side of a player's connection. Sends are buffered
// and never block the game loop.
type Conn interface {
	Send(m packet.Message)
	SendText(text string)
	Close(reason string)
}

// Player is the session component: connection, equipment, flags and the
// per-player timers.
type Player struct {
	Conn Conn
	Name string

	Armor       data.Kind
	Weapon      data.Kind
	ArmorLevel  int
	WeaponLevel int

	Entered        bool
	Dead           bool
	LastCheckpoint *data.Checkpoint

	haters *idSet // mobs whose hatelist holds this player

	idle   timer.Slot
	potion timer.Slot
}

func (p *Player) EquipArmor(kind data.Kind) {
	p.Armor = kind
	p.ArmorLevel = kind.EquipmentLevel()
}

func (p *Player) EquipWeapon(kind data.Kind) {
	p.Weapon = kind
	p.WeaponLevel = kind.EquipmentLevel()
}

func (p *Player) AddHater(id ecs.EntityID)    { p.haters.Add(id) }
func (p *Player) RemoveHater(id ecs.EntityID) { p.haters.Remove(id) }

// Haters returns a snapshot of the mob ids hating this player.
func (p *Player) Haters() []ecs.EntityID { return p.haters.Slice() }

// IdlePending reports whether the idle disconnect is armed.
func (p *Player) IdlePending() bool { return p.idle.Pending() }

// PotionPending reports whether a firepotion reversion is scheduled.
func (p *Player) PotionPending() bool { return p.potion.Pending() }

func (p *Player) cancelTimers() {
	p.idle.Cancel()
	p.potion.Cancel()
}
