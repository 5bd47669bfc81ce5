package world

import (
	"reflect"
	"testing"
	"time"

	"github.com/questgo/server/internal/core/ecs"
	"github.com/questgo/server/internal/data"
	"github.com/questgo/server/internal/net/packet"
)

func TestEnterSendsWelcomeAndList(t *testing.T) {
	w := newTestWorld(t)
	p, conn := w.enter(t, "bob")

	welcome := conn.of(packet.TypeWelcome)
	if len(welcome) != 1 {
		t.Fatalf("expected one WELCOME, got %v", welcome)
	}
	want := []any{int(packet.TypeWelcome), int(p.ID), "bob", p.X, p.Y, 80}
	if !reflect.DeepEqual(welcome[0], want) {
		t.Fatalf("expected %v, got %v", want, welcome[0])
	}
	if p.X < 3 || p.X > 4 || p.Y < 3 || p.Y > 4 {
		t.Fatalf("expected a starting position, got (%d,%d)", p.X, p.Y)
	}
	if got := conn.of(packet.TypePopulation); len(got) != 1 || got[0][1] != 1 || got[0][2] != 1 {
		t.Fatalf("expected POPULATION 1 1, got %v", got)
	}

	lists := conn.of(packet.TypeList)
	if len(lists) != 1 {
		t.Fatalf("expected one LIST, got %v", lists)
	}
	listed := map[int]bool{}
	for _, v := range lists[0][1:] {
		listed[v.(int)] = true
	}
	for _, rat := range w.mobsOf(data.Rat) {
		if !listed[int(rat.ID)] {
			t.Errorf("rat %d missing from LIST", rat.ID)
		}
	}
	if listed[int(p.ID)] {
		t.Error("LIST must not contain the player itself")
	}
	chest := w.itemsOf(data.Chest)[0]
	if listed[int(chest.ID)] {
		t.Error("LIST leaked an entity from a non-adjacent zone")
	}
	if w.PlayerCount() != 1 {
		t.Fatalf("expected 1 player, got %d", w.PlayerCount())
	}
}

func TestEnterFallsBackToDefaultEquipment(t *testing.T) {
	w := newTestWorld(t)
	p := w.Connect(&fakeConn{})
	w.Enter(p, "eve", data.Rat, data.Flask)
	if p.Player.Armor != data.ClothArmor || p.Player.Weapon != data.Sword1 {
		t.Fatalf("expected default equipment, got armor=%s weapon=%s", p.Player.Armor, p.Player.Weapon)
	}
	if p.Player.ArmorLevel != 1 || p.Player.WeaponLevel != 1 {
		t.Fatalf("expected level 1 equipment, got %d/%d", p.Player.ArmorLevel, p.Player.WeaponLevel)
	}

	q := w.Connect(&fakeConn{})
	w.Enter(q, "ann", data.PlateArmor, data.Axe)
	if q.Character.MaxHitPoints != 170 {
		t.Fatalf("expected hp for armor level 4, got %d", q.Character.MaxHitPoints)
	}
}

func TestMoveOutOfBoundsIsIgnored(t *testing.T) {
	w := newTestWorld(t)
	p, _ := w.enter(t, "bob")
	_, watcher := w.enter(t, "ann")
	watcher.reset()
	x, y := p.X, p.Y

	for _, pos := range [][2]int{{0, 5}, {112, 5}, {5, 24}, {-3, -3}} {
		if w.Move(p, pos[0], pos[1]) {
			t.Fatalf("move to %v accepted", pos)
		}
	}
	if p.X != x || p.Y != y {
		t.Fatalf("position changed to (%d,%d)", p.X, p.Y)
	}
	if len(watcher.of(packet.TypeMove)) != 0 {
		t.Fatal("rejected move was broadcast")
	}

	p.Character.SetTarget(5)
	if !w.Move(p, 6, 6) {
		t.Fatal("valid move rejected")
	}
	if got := watcher.about(packet.TypeMove, p.ID); len(got) != 1 || got[0][2] != 6 || got[0][3] != 6 {
		t.Fatalf("expected MOVE to (6,6), got %v", got)
	}
	if p.Character.HasTarget() {
		t.Fatal("move must clear the target")
	}
}

func TestMoveSkipsSender(t *testing.T) {
	w := newTestWorld(t)
	p, conn := w.enter(t, "bob")
	conn.reset()
	w.Move(p, 6, 6)
	if len(conn.of(packet.TypeMove)) != 0 {
		t.Fatal("mover received its own MOVE")
	}
}

func TestLootMoveNeedsItem(t *testing.T) {
	w := newTestWorld(t)
	p, _ := w.enter(t, "bob")
	_, watcher := w.enter(t, "ann")
	watcher.reset()

	if w.LootMove(p, 6, 6, 424242) {
		t.Fatal("loot move towards a missing item accepted")
	}
	flask := w.addItem(w.createItem(data.Flask, 6, 6))
	if !w.LootMove(p, 6, 6, flask.ID) {
		t.Fatal("loot move rejected")
	}
	want := []any{int(packet.TypeLootMove), int(p.ID), int(flask.ID)}
	if got := watcher.of(packet.TypeLootMove); len(got) != 1 || !reflect.DeepEqual(got[0], want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestZoneChangeUpdatesGroups(t *testing.T) {
	w := newTestWorld(t)
	p, conn := w.enter(t, "bob")
	_, watcher := w.enter(t, "ann")
	w.advance(0)
	watcher.reset()
	conn.reset()

	if w.Zone(p) {
		t.Fatal("zone without moving reported a change")
	}
	if !w.Move(p, 80, 5) {
		t.Fatal("move rejected")
	}
	if !w.Zone(p) {
		t.Fatal("expected a zone change")
	}
	if p.Group != (data.GroupID{X: 2, Y: 0}) {
		t.Fatalf("expected group 2-0, got %s", p.Group)
	}
	if got := watcher.about(packet.TypeDestroy, p.ID); len(got) != 1 {
		t.Fatalf("expected DESTROY for the left zone, got %v", got)
	}
	chest := w.itemsOf(data.Chest)[0]
	lists := conn.of(packet.TypeList)
	if len(lists) != 1 {
		t.Fatalf("expected one LIST, got %v", lists)
	}
	found := false
	for _, v := range lists[0][1:] {
		if v == int(chest.ID) {
			found = true
		}
	}
	if !found {
		t.Fatal("LIST after zoning misses the chest now in range")
	}

	w.advance(0)
	if got := watcher.about(packet.TypeSpawn, p.ID); len(got) != 0 {
		t.Fatalf("a player out of range received SPAWN: %v", got)
	}
}

func TestAdjacentPlayersSeeSpawn(t *testing.T) {
	w := newTestWorld(t)
	_, watcher := w.enter(t, "ann")
	watcher.reset()
	p, _ := w.enter(t, "bob")
	w.advance(0)
	got := watcher.about(packet.TypeSpawn, p.ID)
	if len(got) != 1 {
		t.Fatalf("expected one SPAWN of the newcomer, got %v", got)
	}
	want := []any{int(packet.TypeSpawn), int(p.ID), int(data.Warrior), p.X, p.Y, "bob",
		int(p.Character.Orientation), int(data.ClothArmor), int(data.Sword1)}
	if !reflect.DeepEqual(got[0], want) {
		t.Fatalf("expected %v, got %v", want, got[0])
	}
}

func TestWhoAnswersKnownIDs(t *testing.T) {
	w := newTestWorld(t)
	p, conn := w.enter(t, "bob")
	conn.reset()
	rat := w.mobsOf(data.Rat)[0]
	w.Who(p, []ecs.EntityID{rat.ID, 424242})
	spawns := conn.of(packet.TypeSpawn)
	if len(spawns) != 1 {
		t.Fatalf("expected one SPAWN, got %v", spawns)
	}
	want := []any{int(packet.TypeSpawn), int(rat.ID), int(data.Rat), rat.X, rat.Y, int(rat.Character.Orientation)}
	if !reflect.DeepEqual(spawns[0], want) {
		t.Fatalf("expected %v, got %v", want, spawns[0])
	}
}

func TestChatReachesOwnZoneOnly(t *testing.T) {
	w := newTestWorld(t)
	p, conn := w.enter(t, "bob")
	_, near := w.enter(t, "ann")
	far, farConn := w.enter(t, "cid")
	w.Move(far, 30, 5)
	w.Zone(far)

	w.Chat(p, "hello")
	want := []any{int(packet.TypeChat), int(p.ID), "hello"}
	for name, c := range map[string]*fakeConn{"sender": conn, "same zone": near} {
		if got := c.of(packet.TypeChat); len(got) != 1 || !reflect.DeepEqual(got[0], want) {
			t.Errorf("%s: expected %v, got %v", name, want, got)
		}
	}
	if len(farConn.of(packet.TypeChat)) != 0 {
		t.Error("chat leaked to another zone")
	}
}

func TestAggroTargetsAndAnnounces(t *testing.T) {
	w := newTestWorld(t)
	p, _ := w.enter(t, "bob")
	_, watcher := w.enter(t, "ann")
	watcher.reset()
	rat := w.mobsOf(data.Rat)[0]

	w.Aggro(p, rat.ID)
	if rat.Mob.Hate.HateFor(p.ID) != 5 {
		t.Fatalf("expected hate 5, got %d", rat.Mob.Hate.HateFor(p.ID))
	}
	if rat.Character.Target != p.ID || !p.Character.IsAttackedBy(rat.ID) {
		t.Fatal("expected the rat to target the player")
	}
	want := []any{int(packet.TypeAttack), int(rat.ID), int(p.ID)}
	if got := watcher.about(packet.TypeAttack, rat.ID); len(got) != 1 || !reflect.DeepEqual(got[0], want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	w.Aggro(p, rat.ID)
	if got := watcher.about(packet.TypeAttack, rat.ID); len(got) != 1 {
		t.Fatalf("retargeting the same player must not re-announce, got %v", got)
	}
}

func TestAttackAnnouncesPlayerTarget(t *testing.T) {
	w := newTestWorld(t)
	p, _ := w.enter(t, "bob")
	_, watcher := w.enter(t, "ann")
	rat := w.mobsOf(data.Rat)[0]

	w.Attack(p, 424242)
	if p.Character.HasTarget() {
		t.Fatal("attack on a missing mob set a target")
	}
	w.Attack(p, rat.ID)
	if p.Character.Target != rat.ID {
		t.Fatalf("expected target %d, got %d", rat.ID, p.Character.Target)
	}
	if got := watcher.about(packet.TypeAttack, p.ID); len(got) != 1 {
		t.Fatalf("expected ATTACK from the player, got %v", got)
	}
}

func TestTeleportMakesMobsGiveUp(t *testing.T) {
	w := newTestWorld(t)
	p, conn := w.enter(t, "bob")
	rat := w.mobsOf(data.Rat)[0]
	w.Aggro(p, rat.ID)
	conn.reset()

	if w.Teleport(p, 0, 0) {
		t.Fatal("teleport to an invalid tile accepted")
	}
	if !w.Teleport(p, 100, 20) {
		t.Fatal("teleport rejected")
	}
	if rat.Character.HasTarget() || p.Character.IsAttackedBy(rat.ID) {
		t.Fatal("expected the rat to drop its target")
	}
	if rat.Mob.Hate.Hates(p.ID) {
		t.Fatal("expected the rat to forget the player")
	}
	if !rat.Mob.ReturnPending() {
		t.Fatal("expected the rat to head home")
	}
	if p.Group != (data.GroupID{X: 3, Y: 1}) {
		t.Fatalf("expected group 3-1 after teleport, got %s", p.Group)
	}
	if len(conn.of(packet.TypeList)) != 1 {
		t.Fatal("expected a LIST after teleport")
	}
}

func TestFollowAndChaseLimit(t *testing.T) {
	w := newTestWorld(t)
	w.mobAreas[0].StopRoaming()
	p, _ := w.enter(t, "bob")
	rat := w.mobsOf(data.Rat)[0]
	w.Aggro(p, rat.ID)

	w.Move(p, 8, 8)
	if d := distance(rat.X, rat.Y, p.X, p.Y); d != 1 {
		t.Fatalf("expected the rat next to the player, distance %d", d)
	}

	w.Move(p, 100, 8)
	if rat.Character.HasTarget() || rat.Mob.Hate.Len() != 0 {
		t.Fatal("expected the rat to forget everyone past the chase limit")
	}
	if p.Character.IsAttackedBy(rat.ID) {
		t.Fatal("expected the attacker link removed")
	}
	if !rat.Mob.ReturnPending() {
		t.Fatal("expected the rat to head home")
	}
}

func TestHurtKillsAndHelloRevives(t *testing.T) {
	w := newTestWorld(t)
	w.formulas.damage = 50
	p, conn := w.enter(t, "bob")
	_, watcher := w.enter(t, "ann")
	rat := w.mobsOf(data.Rat)[0]

	w.Hurt(p, 424242)
	if p.Character.HitPoints != 80 {
		t.Fatal("hurt by a missing mob applied damage")
	}
	w.Hurt(p, rat.ID)
	if got := conn.of(packet.TypeHealth); len(got) != 1 || got[0][1] != 30 {
		t.Fatalf("expected HEALTH 30, got %v", got)
	}
	w.Hurt(p, rat.ID)
	if !p.Player.Dead {
		t.Fatal("expected the player dead")
	}
	if _, ok := w.Entity(p.ID); ok {
		t.Fatal("dead player still in the entity registry")
	}
	if got := watcher.about(packet.TypeDespawn, p.ID); len(got) != 1 {
		t.Fatalf("expected DESPAWN of the dead player, got %v", got)
	}
	w.Hurt(p, rat.ID)
	if p.Character.HitPoints != -20 {
		t.Fatalf("a dead player took more damage: %d", p.Character.HitPoints)
	}

	w.Enter(p, "bob", data.ClothArmor, data.Sword1)
	if p.Player.Dead || p.Character.HitPoints != 80 {
		t.Fatalf("expected revived player, dead=%v hp=%d", p.Player.Dead, p.Character.HitPoints)
	}
	if w.PlayerCount() != 2 {
		t.Fatalf("re-entering must not count twice, got %d", w.PlayerCount())
	}
}

func TestLootConsumables(t *testing.T) {
	w := newTestWorld(t)
	p, conn := w.enter(t, "bob")
	_, watcher := w.enter(t, "ann")
	conn.reset()

	w.Loot(p, w.addItem(w.createItem(data.Flask, 5, 5)).ID)
	if len(conn.of(packet.TypeHealth)) != 0 {
		t.Fatal("healing at full health must be silent")
	}

	p.Character.HitPoints = 30
	flask := w.addItem(w.createItem(data.Flask, 5, 5))
	w.Loot(p, flask.ID)
	if p.Character.HitPoints != 70 {
		t.Fatalf("expected 70 hp after a flask, got %d", p.Character.HitPoints)
	}
	if _, ok := w.Item(flask.ID); ok {
		t.Fatal("looted flask still on the ground")
	}
	if got := watcher.about(packet.TypeDespawn, flask.ID); len(got) != 1 {
		t.Fatalf("expected DESPAWN of the flask, got %v", got)
	}
	w.Loot(p, w.addItem(w.createItem(data.Burger, 5, 5)).ID)
	if p.Character.HitPoints != 80 {
		t.Fatalf("expected healing capped at max, got %d", p.Character.HitPoints)
	}

	w.Loot(p, flask.ID)
	if p.Character.HitPoints != 80 {
		t.Fatal("looting a consumed item had an effect")
	}
}

func TestLootEquipment(t *testing.T) {
	w := newTestWorld(t)
	p, conn := w.enter(t, "bob")
	_, watcher := w.enter(t, "ann")
	conn.reset()

	w.Loot(p, w.addItem(w.createItem(data.LeatherArmor, 5, 5)).ID)
	if p.Player.Armor != data.LeatherArmor || p.Character.MaxHitPoints != 110 {
		t.Fatalf("expected leather armor with 110 hp, got %s/%d", p.Player.Armor, p.Character.MaxHitPoints)
	}
	if got := conn.of(packet.TypeHP); len(got) != 1 || got[0][1] != 110 {
		t.Fatalf("expected HP 110, got %v", got)
	}
	w.Loot(p, w.addItem(w.createItem(data.Axe, 5, 5)).ID)
	if p.Player.Weapon != data.Axe || p.Player.WeaponLevel != 3 {
		t.Fatalf("expected axe level 3, got %s/%d", p.Player.Weapon, p.Player.WeaponLevel)
	}
	equips := watcher.about(packet.TypeEquip, p.ID)
	if len(equips) != 2 || equips[0][2] != int(data.LeatherArmor) || equips[1][2] != int(data.Axe) {
		t.Fatalf("expected EQUIP leather then axe, got %v", equips)
	}
	if len(conn.of(packet.TypeEquip)) != 0 {
		t.Fatal("looter received its own EQUIP")
	}

	chest := w.itemsOf(data.Chest)[0]
	w.Loot(p, chest.ID)
	if _, ok := w.Item(chest.ID); !ok {
		t.Fatal("chests cannot be looted")
	}
}

func TestFirepotionReverts(t *testing.T) {
	w := newTestWorld(t)
	p, conn := w.enter(t, "bob")
	_, watcher := w.enter(t, "ann")
	conn.reset()

	p.Character.HitPoints = 10
	w.Loot(p, w.addItem(w.createItem(data.Firepotion, 5, 5)).ID)
	if p.Character.HitPoints != 80 {
		t.Fatalf("expected hp restored, got %d", p.Character.HitPoints)
	}
	if got := conn.of(packet.TypeHP); len(got) != 1 || got[0][1] != 80 {
		t.Fatalf("expected HP 80, got %v", got)
	}
	if got := watcher.about(packet.TypeEquip, p.ID); len(got) != 1 || got[0][2] != int(data.Firefox) {
		t.Fatalf("expected EQUIP firefox, got %v", got)
	}

	w.advance(10 * time.Second)
	w.Loot(p, w.addItem(w.createItem(data.Firepotion, 5, 5)).ID)
	w.advance(10 * time.Second)
	if got := watcher.about(packet.TypeEquip, p.ID); len(got) != 2 {
		t.Fatalf("a second potion must restart the countdown, got %v", got)
	}
	w.advance(5 * time.Second)
	got := watcher.about(packet.TypeEquip, p.ID)
	if len(got) != 3 || got[2][2] != int(data.ClothArmor) {
		t.Fatalf("expected EQUIP back to cloth armor, got %v", got)
	}
	if p.Player.PotionPending() {
		t.Fatal("potion still pending after reverting")
	}
}

func TestRegenHealsPlayers(t *testing.T) {
	w := newTestWorld(t)
	p, conn := w.enter(t, "bob")
	conn.reset()
	p.Character.HitPoints = 40
	goblin := w.mobsOf(data.Goblin)[0]
	goblin.Character.HitPoints = 5

	w.advance(2 * time.Second)
	if p.Character.HitPoints != 43 {
		t.Fatalf("expected 43 hp, got %d", p.Character.HitPoints)
	}
	if got := conn.of(packet.TypeHealth); len(got) != 1 || !reflect.DeepEqual(got[0], []any{int(packet.TypeHealth), 43, 1}) {
		t.Fatalf("expected regen HEALTH, got %v", got)
	}
	if goblin.Character.HitPoints != 6 {
		t.Fatal("expected the mob to regenerate")
	}
}

func TestIdleTimeout(t *testing.T) {
	w := newTestWorld(t)
	conn := &fakeConn{}
	p := w.Connect(conn)
	if !p.Player.IdlePending() {
		t.Fatal("expected the idle timer armed at connect")
	}
	w.advance(10 * time.Minute)
	w.ResetIdle(p)
	w.advance(10 * time.Minute)
	if conn.closed != "" {
		t.Fatalf("rearmed session closed early: %q", conn.closed)
	}
	w.advance(5 * time.Minute)
	if !reflect.DeepEqual(conn.texts, []string{IdleNotice}) {
		t.Fatalf("expected the timeout notice, got %v", conn.texts)
	}
	if conn.closed != IdleCloseReason {
		t.Fatalf("expected %q, got %q", IdleCloseReason, conn.closed)
	}
}

func TestIdleTimeoutLeavesWorld(t *testing.T) {
	w := newTestWorld(t)
	p, conn := w.enter(t, "bob")
	ann, watcher := w.enter(t, "ann")
	watcher.reset()

	w.advance(10 * time.Minute)
	w.ResetIdle(ann)
	w.advance(6 * time.Minute)
	if conn.closed != IdleCloseReason {
		t.Fatalf("expected %q, got %q", IdleCloseReason, conn.closed)
	}
	if _, ok := w.Player(p.ID); ok {
		t.Fatal("idle player still registered")
	}
	if p.Player.IdlePending() || p.Player.PotionPending() {
		t.Fatal("timers survived the idle disconnect")
	}
	if got := watcher.about(packet.TypeDespawn, p.ID); len(got) != 1 {
		t.Fatalf("expected DESPAWN of the idle player, got %v", got)
	}

	if w.PlayerCount() != 1 {
		t.Fatalf("expected 1 player left, got %d", w.PlayerCount())
	}
	w.Disconnect(p)
	if w.PlayerCount() != 1 {
		t.Fatal("releasing an idled player changed the count")
	}
}

func TestDisconnectCleansUp(t *testing.T) {
	w := newTestWorld(t)
	p, _ := w.enter(t, "bob")
	_, watcher := w.enter(t, "ann")
	rat := w.mobsOf(data.Rat)[0]
	w.Aggro(p, rat.ID)
	w.Loot(p, w.addItem(w.createItem(data.Firepotion, 5, 5)).ID)
	watcher.reset()

	w.Disconnect(p)

	if p.Player.IdlePending() || p.Player.PotionPending() {
		t.Fatal("timers survived the disconnect")
	}
	if _, ok := w.Player(p.ID); ok {
		t.Fatal("player still registered")
	}
	if rat.Character.HasTarget() || rat.Mob.Hate.Hates(p.ID) {
		t.Fatal("mob still hunting a gone player")
	}
	if got := watcher.about(packet.TypeDespawn, p.ID); len(got) != 1 {
		t.Fatalf("expected DESPAWN, got %v", got)
	}
	if got := watcher.of(packet.TypePopulation); len(got) != 1 || got[0][1] != 1 {
		t.Fatalf("expected POPULATION 1, got %v", got)
	}
	if w.PlayerCount() != 1 {
		t.Fatalf("expected 1 player left, got %d", w.PlayerCount())
	}

	w.Disconnect(p)
	if w.PlayerCount() != 1 {
		t.Fatal("second disconnect changed the count")
	}
}

func TestCheckRecordsCheckpoint(t *testing.T) {
	w := newTestWorld(t)
	p, _ := w.enter(t, "bob")
	w.Check(p, 99)
	if p.Player.LastCheckpoint != nil {
		t.Fatal("unknown checkpoint recorded")
	}
	w.Check(p, 2)
	if p.Player.LastCheckpoint == nil || p.Player.LastCheckpoint.ID != 2 {
		t.Fatal("expected checkpoint 2")
	}
	p.Player.Dead = true
	w.Enter(p, "bob", data.ClothArmor, data.Sword1)
	if p.X != 40 || p.Y != 15 {
		t.Fatalf("expected respawn at checkpoint (40,15), got (%d,%d)", p.X, p.Y)
	}
}
