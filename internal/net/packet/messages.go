package packet

// Message is an immutable outbound message value.
type Message interface {
	Serialize() []any
}

type Welcome struct {
	ID        int
	Name      string
	X, Y      int
	HitPoints int
}

func (m Welcome) Serialize() []any {
	return NewWriter(TypeWelcome).Int(m.ID).String(m.Name).Int(m.X).Int(m.Y).Int(m.HitPoints).Values()
}

// Spawn carries an entity's full state as produced by its State method.
type Spawn struct {
	State []any
}

func (m Spawn) Serialize() []any {
	return NewWriter(TypeSpawn).Append(m.State...).Values()
}

type Despawn struct {
	ID int
}

func (m Despawn) Serialize() []any {
	return NewWriter(TypeDespawn).Int(m.ID).Values()
}

type Move struct {
	ID, X, Y int
}

func (m Move) Serialize() []any {
	return NewWriter(TypeMove).Int(m.ID).Int(m.X).Int(m.Y).Values()
}

type LootMove struct {
	ID, ItemID int
}

func (m LootMove) Serialize() []any {
	return NewWriter(TypeLootMove).Int(m.ID).Int(m.ItemID).Values()
}

type Attack struct {
	AttackerID, TargetID int
}

func (m Attack) Serialize() []any {
	return NewWriter(TypeAttack).Int(m.AttackerID).Int(m.TargetID).Values()
}

// Health reports current hit points; Regen marks periodic regeneration.
type Health struct {
	Points int
	Regen  bool
}

func (m Health) Serialize() []any {
	w := NewWriter(TypeHealth).Int(m.Points)
	if m.Regen {
		w.Int(1)
	}
	return w.Values()
}

// HitPoints announces a new maximum.
type HitPoints struct {
	Max int
}

func (m HitPoints) Serialize() []any {
	return NewWriter(TypeHP).Int(m.Max).Values()
}

type Equip struct {
	PlayerID, Kind int
}

func (m Equip) Serialize() []any {
	return NewWriter(TypeEquip).Int(m.PlayerID).Int(m.Kind).Values()
}

// Drop announces loot left by a mob; Haters lists who fought it.
type Drop struct {
	MobID, ItemID, Kind int
	Haters              []int
}

func (m Drop) Serialize() []any {
	return NewWriter(TypeDrop).Int(m.MobID).Int(m.ItemID).Int(m.Kind).IntList(m.Haters).Values()
}

type Chat struct {
	PlayerID int
	Text     string
}

func (m Chat) Serialize() []any {
	return NewWriter(TypeChat).Int(m.PlayerID).String(m.Text).Values()
}

type Teleport struct {
	ID, X, Y int
}

func (m Teleport) Serialize() []any {
	return NewWriter(TypeTeleport).Int(m.ID).Int(m.X).Int(m.Y).Values()
}

type Damage struct {
	ID, Points int
}

func (m Damage) Serialize() []any {
	return NewWriter(TypeDamage).Int(m.ID).Int(m.Points).Values()
}

// Population reports the players in this world and across all servers.
type Population struct {
	World, Total int
}

func (m Population) Serialize() []any {
	return NewWriter(TypePopulation).Int(m.World).Int(m.Total).Values()
}

type Kill struct {
	MobKind int
}

func (m Kill) Serialize() []any {
	return NewWriter(TypeKill).Int(m.MobKind).Values()
}

// List names the entities a player should know about; the client answers with WHO.
type List struct {
	IDs []int
}

func (m List) Serialize() []any {
	return NewWriter(TypeList).Ints(m.IDs).Values()
}

type Destroy struct {
	ID int
}

func (m Destroy) Serialize() []any {
	return NewWriter(TypeDestroy).Int(m.ID).Values()
}

type Blink struct {
	ItemID int
}

func (m Blink) Serialize() []any {
	return NewWriter(TypeBlink).Int(m.ItemID).Values()
}
