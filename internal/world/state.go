package world

import (
	"math/rand"
	"time"

	"github.com/questgo/server/internal/core/ecs"
	"github.com/questgo/server/internal/core/event"
	"github.com/questgo/server/internal/core/timer"
	"github.com/questgo/server/internal/data"
	"github.com/questgo/server/internal/net/packet"
	"go.uber.org/zap"
)

// Options are the per-world tunables. Zero values take the defaults below.
type Options struct {
	ID       string
	Capacity int

	IdleTimeout       time.Duration
	RoamInterval      time.Duration
	RespawnDelay      time.Duration
	ReturnDelay       time.Duration
	RegenInterval     time.Duration
	PotionDuration    time.Duration
	ItemBlinkDelay    time.Duration
	ItemBlinkDuration time.Duration

	ChaseLimit int // tiles a mob follows away from its spawn
}

func (o *Options) applyDefaults() {
	setDuration := func(d *time.Duration, v time.Duration) {
		if *d <= 0 {
			*d = v
		}
	}
	setDuration(&o.IdleTimeout, 15*time.Minute)
	setDuration(&o.RoamInterval, 500*time.Millisecond)
	setDuration(&o.RespawnDelay, 30*time.Second)
	setDuration(&o.ReturnDelay, 4*time.Second)
	setDuration(&o.RegenInterval, 2*time.Second)
	setDuration(&o.PotionDuration, 15*time.Second)
	setDuration(&o.ItemBlinkDelay, 10*time.Second)
	setDuration(&o.ItemBlinkDuration, 4*time.Second)
	if o.Capacity <= 0 {
		o.Capacity = 200
	}
	if o.ChaseLimit <= 0 {
		o.ChaseLimit = 50
	}
}

// Formulas computes combat numbers. Implemented by scripting.Engine.
type Formulas interface {
	Damage(weaponLevel, armorLevel int) int
	HitPoints(armorLevel int) int
}

// TotalFunc reports the population across every server, when known.
type TotalFunc func() (int, bool)

// maxPlacementAttempts bounds rejection sampling of walkable tiles.
const maxPlacementAttempts = 100

// World is one simulated world: its entity registries, zone groups, areas
// and scheduler. Every method runs on the game loop goroutine, no locks.
type World struct {
	opts     Options
	m        *data.Map
	props    *data.Properties
	formulas Formulas
	rng      *rand.Rand
	log      *zap.Logger

	sched *timer.Scheduler
	bus   *event.Bus

	registry *ecs.Registry
	entities *ecs.Store[Entity]
	mobs     *ecs.Store[Entity]
	items    *ecs.Store[Entity]
	npcs     *ecs.Store[Entity]
	players  *ecs.Store[Entity]

	mobIDs    *ecs.IDPool
	npcIDs    *ecs.IDPool
	itemIDs   *ecs.IDPool
	playerIDs *ecs.IDPool

	groups     map[data.GroupID]*group
	mobAreas   []*MobArea
	chestAreas []*ChestArea

	playerCount int
	total       TotalFunc
	regen       *timer.Task
	ready       bool
}

// NewWorld builds a world over m. A nil map leaves the world not ready:
// it keeps ticking but never accepts players.
func NewWorld(opts Options, m *data.Map, props *data.Properties, formulas Formulas, rng *rand.Rand, start time.Time, log *zap.Logger) *World {
	opts.applyDefaults()
	w := &World{
		opts:       opts,
		m:          m,
		props:      props,
		formulas:   formulas,
		rng:        rng,
		log:        log.With(zap.String("world", opts.ID)),
		sched:      timer.NewScheduler(start),
		bus:        event.NewBus(),
		registry:   ecs.NewRegistry(),
		entities:   ecs.NewStore[Entity](),
		mobs:       ecs.NewStore[Entity](),
		items:      ecs.NewStore[Entity](),
		npcs:       ecs.NewStore[Entity](),
		players:    ecs.NewStore[Entity](),
		mobIDs:     ecs.NewIDPool(mobIDBase, idBandSize),
		npcIDs:     ecs.NewIDPool(npcIDBase, idBandSize),
		itemIDs:    ecs.NewIDPool(itemIDBase, idBandSize),
		playerIDs:  ecs.NewIDPool(playerIDBase, idBandSize),
		groups:     make(map[data.GroupID]*group),
	}
	w.registry.Register(w.entities)
	w.registry.Register(w.mobs)
	w.registry.Register(w.items)

	event.Subscribe(w.bus, w.onAreaEmptied)
	event.Subscribe(w.bus, func(ev event.PlayerEntered) {
		w.log.Info("玩家進入世界", zap.String("name", ev.Name), zap.Int("player", ev.PlayerID), zap.Int("population", w.playerCount))
	})
	event.Subscribe(w.bus, func(ev event.PlayerLeft) {
		w.log.Info("玩家離開世界", zap.String("name", ev.Name), zap.Int("player", ev.PlayerID), zap.Int("population", w.playerCount))
	})
	event.Subscribe(w.bus, func(ev event.MobKilled) {
		w.log.Debug("怪物被擊殺", zap.Int("mob", ev.MobID), zap.Int("kind", ev.Kind), zap.Int("player", ev.PlayerID))
	})

	if m == nil {
		w.log.Error("世界地圖未載入，不接受玩家")
		return w
	}
	w.initGroups()
	w.initMobAreas()
	w.initChestAreas()
	w.spawnStaticEntities()
	w.spawnStaticChests()
	for _, a := range w.mobAreas {
		a.InitRoaming(w.opts.RoamInterval)
	}
	w.regen = w.sched.Every(w.opts.RegenInterval, w.regenTick)
	w.ready = true

	w.log.Info("世界就緒",
		zap.Int("mobs", w.mobs.Len()),
		zap.Int("npcs", w.npcs.Len()),
		zap.Int("items", w.items.Len()),
		zap.Int("mob_areas", len(w.mobAreas)),
		zap.Int("chest_areas", len(w.chestAreas)),
	)
	return w
}

func (w *World) ID() string       { return w.opts.ID }
func (w *World) Ready() bool      { return w.ready }
func (w *World) Capacity() int    { return w.opts.Capacity }
func (w *World) PlayerCount() int { return w.playerCount }

// HasRoom reports whether another player may join.
func (w *World) HasRoom() bool { return w.ready && w.playerCount < w.opts.Capacity }

// Scheduler exposes the world clock for tests and diagnostics.
func (w *World) Scheduler() *timer.Scheduler { return w.sched }

// SetTotalSource installs the cross-server population source.
func (w *World) SetTotalSource(fn TotalFunc) { w.total = fn }

// Tick advances the world to now: events from the previous tick are
// delivered, due timers fire, then pending group spawns go out.
func (w *World) Tick(now time.Time) {
	w.bus.SwapBuffers()
	w.bus.DispatchAll()
	w.sched.Advance(now)
	w.processGroups()
}

// Stop cancels every pending timer.
func (w *World) Stop() {
	w.sched.Clear()
}

// Entity looks up any entity by id.
func (w *World) Entity(id ecs.EntityID) (*Entity, bool) { return w.entities.Get(id) }

// Mob looks up a live-registered mob.
func (w *World) Mob(id ecs.EntityID) (*Entity, bool) { return w.mobs.Get(id) }

// Item looks up an item or chest lying on the map.
func (w *World) Item(id ecs.EntityID) (*Entity, bool) { return w.items.Get(id) }

// Player looks up a connected player.
func (w *World) Player(id ecs.EntityID) (*Entity, bool) { return w.players.Get(id) }

// Map returns the world's map, nil when not ready.
func (w *World) Map() *data.Map { return w.m }

// --- construction ---

func (w *World) initMobAreas() {
	for _, info := range w.m.RoamingAreas {
		kind, ok := data.KindFromString(info.Type)
		if !ok || !kind.IsMob() {
			w.log.Warn("未知的怪物種類", zap.Int("area", info.ID), zap.String("type", info.Type))
			continue
		}
		a := newMobArea(w, info, kind)
		a.SpawnMobs()
		w.mobAreas = append(w.mobAreas, a)
	}
}

func (w *World) initChestAreas() {
	for i, info := range w.m.ChestAreas {
		w.chestAreas = append(w.chestAreas, newChestArea(w, i, info))
	}
}

// spawnStaticEntities places npcs, items and guard mobs from the map's
// tile-indexed placement list.
func (w *World) spawnStaticEntities() {
	for _, se := range w.m.StaticEntities {
		kind, ok := data.KindFromString(se.Kind)
		if !ok {
			w.log.Warn("未知的靜態實體", zap.Int("tile", se.TileIndex), zap.String("kind", se.Kind))
			continue
		}
		x, y := w.m.TileIndexToGridPosition(se.TileIndex)
		x++
		switch {
		case kind.IsItem():
			w.addStaticItem(w.createItem(kind, x, y))
		case kind.IsNpc():
			w.addNpc(kind, x, y)
		case kind.IsMob():
			mob := w.createMob(kind, x, y)
			mob.Mob.static = true
			w.addMob(mob)
			w.tryAddingMobToChestArea(mob)
		}
	}
}

func (w *World) spawnStaticChests() {
	for _, sc := range w.m.StaticChests {
		w.addStaticItem(w.createChest(sc.X, sc.Y, kindsOf(sc.Items)))
	}
}

func (w *World) tryAddingMobToChestArea(mob *Entity) {
	for _, a := range w.chestAreas {
		if a.Contains(mob.X, mob.Y) {
			mob.Mob.chestArea = a
			a.SetExpected(a.Expected() + 1)
			a.Add(mob)
		}
	}
}

// onAreaEmptied rewards a cleared chest area with a chest.
func (w *World) onAreaEmptied(ev event.AreaEmptied) {
	if !ev.Chest {
		return
	}
	if ev.AreaID < 0 || ev.AreaID >= len(w.chestAreas) {
		return
	}
	a := w.chestAreas[ev.AreaID]
	chest := w.createChest(a.ChestX, a.ChestY, a.Items)
	w.addItem(chest)
	w.handleItemDespawn(chest)
	w.log.Debug("寶箱區域清空，生成寶箱", zap.Int("area", a.ID), zap.Int("chest", int(chest.ID)))
}

// --- entity factories ---

func (w *World) createMob(kind data.Kind, x, y int) *Entity {
	e := &Entity{
		ID:        w.mobIDs.Create(),
		Type:      TypeMob,
		Kind:      kind,
		X:         x,
		Y:         y,
		Character: newCharacter(randomOrientation(w.rng)),
		Mob: &Mob{
			ArmorLevel:  w.props.ArmorLevel(kind),
			WeaponLevel: w.props.WeaponLevel(kind),
			SpawnX:      x,
			SpawnY:      y,
		},
	}
	e.Character.ResetHitPoints(w.props.HitPoints(kind))
	return e
}

func (w *World) createItem(kind data.Kind, x, y int) *Entity {
	return &Entity{
		ID:   w.itemIDs.Create(),
		Type: TypeItem,
		Kind: kind,
		X:    x,
		Y:    y,
		Item: &Item{},
	}
}

func (w *World) createChest(x, y int, contents []data.Kind) *Entity {
	e := w.createItem(data.Chest, x, y)
	e.Item.Contents = contents
	return e
}

// --- registries ---

func (w *World) addEntity(e *Entity) {
	w.entities.Set(e.ID, e)
	w.handleEntityGroupMembership(e)
}

func (w *World) addMob(mob *Entity) {
	w.addEntity(mob)
	w.mobs.Set(mob.ID, mob)
}

func (w *World) addNpc(kind data.Kind, x, y int) *Entity {
	npc := &Entity{
		ID:   w.npcIDs.Create(),
		Type: TypeNpc,
		Kind: kind,
		X:    x,
		Y:    y,
	}
	w.addEntity(npc)
	w.npcs.Set(npc.ID, npc)
	return npc
}

func (w *World) addItem(item *Entity) *Entity {
	w.addEntity(item)
	w.items.Set(item.ID, item)
	return item
}

// addStaticItem places an item that comes back RespawnDelay after removal.
func (w *World) addStaticItem(item *Entity) *Entity {
	item.Item.Static = true
	return w.addItem(item)
}

// addItemFromChest places loot at a chest's tile.
func (w *World) addItemFromChest(kind data.Kind, x, y int) *Entity {
	item := w.createItem(kind, x, y)
	item.Item.FromChest = true
	return w.addItem(item)
}

// removeEntity unlinks e from every registry and group and runs its
// type-specific teardown.
func (w *World) removeEntity(e *Entity) {
	w.registry.RemoveAll(e.ID)
	if e.Mob != nil {
		w.clearMobAggroLink(e)
		w.clearMobHateLinks(e)
	}
	switch {
	case e.Mob != nil:
		w.destroyMob(e)
	case e.Item != nil:
		w.destroyItem(e)
	case e.Player != nil:
		w.destroyPlayer(e)
	}
	w.removeFromGroups(e)
}

func (w *World) destroyItem(item *Entity) {
	it := item.Item
	it.cancelTimers()
	if !it.Static {
		return
	}
	it.respawn.Schedule(w.sched, w.opts.RespawnDelay, func() {
		w.addStaticItem(item)
	})
}

func (w *World) destroyPlayer(p *Entity) {
	for _, id := range p.Character.Attackers() {
		if mob, ok := w.mobs.Get(id); ok {
			mob.Character.ClearTarget()
		}
	}
	p.Character.attackers.Clear()
	for _, id := range p.Player.Haters() {
		if mob, ok := w.mobs.Get(id); ok {
			w.ForgetPlayer(mob, p.ID, 0)
		}
	}
	p.Player.haters.Clear()
}

// --- positions ---

// randomPositionIn rejection-samples a walkable tile in [x, x+w) × [y, y+h).
func (w *World) randomPositionIn(x, y, width, height int) (int, int, bool) {
	px, py := x, y
	for i := 0; i < maxPlacementAttempts; i++ {
		px = x + w.rng.Intn(max(width, 1))
		py = y + w.rng.Intn(max(height, 1))
		if w.m.IsValidPosition(px, py) {
			return px, py, true
		}
	}
	return px, py, false
}

// IsValidPosition reports whether (x, y) is an in-bounds walkable tile.
func (w *World) IsValidPosition(x, y int) bool {
	return w.m != nil && w.m.IsValidPosition(x, y)
}

// --- periodic ---

func (w *World) regenTick() {
	w.players.Each(func(_ ecs.EntityID, p *Entity) {
		if !p.Player.Entered || p.Player.Dead || p.Character.HasFullHealth() {
			return
		}
		p.Character.RegenBy(p.Character.MaxHitPoints / 25)
		p.Player.Conn.Send(packet.Health{Points: p.Character.HitPoints, Regen: true})
	})
	w.mobs.Each(func(_ ecs.EntityID, m *Entity) {
		if m.Mob.Dead || m.Character.HasFullHealth() {
			return
		}
		m.Character.RegenBy(m.Character.MaxHitPoints / 25)
	})
}

// Population returns the POPULATION message for this world.
func (w *World) Population() packet.Population {
	total := w.playerCount
	if w.total != nil {
		if n, ok := w.total(); ok && n >= w.playerCount {
			total = n
		}
	}
	return packet.Population{World: w.playerCount, Total: total}
}

func (w *World) updatePopulation() {
	w.PushBroadcast(w.Population(), 0)
}
