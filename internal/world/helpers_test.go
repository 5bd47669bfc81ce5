package world

import (
	"math/rand"
	"testing"
	"time"

	"github.com/questgo/server/internal/core/ecs"
	"github.com/questgo/server/internal/data"
	"github.com/questgo/server/internal/net/packet"
	"go.uber.org/zap"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// 4x2 zones. Rats roam in zone 0-0, a goblin guards the chest area, a
// static chest sits out in zone 3-0.
const testMapJSON = `{
	"width": 112,
	"height": 24,
	"collisions": [],
	"checkpoints": [
		{"id": 1, "x": 3, "y": 3, "w": 2, "h": 2, "s": 1},
		{"id": 2, "x": 40, "y": 15, "w": 1, "h": 1, "s": 0}
	],
	"roamingAreas": [{"id": 0, "x": 10, "y": 3, "width": 3, "height": 3, "type": "rat", "nb": 2}],
	"chestAreas": [{"x": 20, "y": 3, "w": 4, "h": 4, "i": [35], "tx": 22, "ty": 9}],
	"staticChests": [{"x": 90, "y": 5, "i": [36]}],
	"staticEntities": {"469": "goblin", "792": "guard"}
}`

const testPropertiesYAML = `
mobs:
  rat:
    hp: 20
    armor: 1
    weapon: 1
    drops:
      - {item: flask, chance: 100}
  goblin:
    hp: 30
    armor: 2
    weapon: 1
`

type fixedFormulas struct {
	damage int
}

func (f *fixedFormulas) Damage(weaponLevel, armorLevel int) int { return f.damage }
func (f *fixedFormulas) HitPoints(armorLevel int) int           { return 80 + (armorLevel-1)*30 }

type fakeConn struct {
	msgs   [][]any
	texts  []string
	closed string
}

func (c *fakeConn) Send(m packet.Message) { c.msgs = append(c.msgs, m.Serialize()) }
func (c *fakeConn) SendText(text string)  { c.texts = append(c.texts, text) }

func (c *fakeConn) Close(reason string) {
	if c.closed == "" {
		c.closed = reason
	}
}

// of returns the sent messages of type t.
func (c *fakeConn) of(t packet.Type) [][]any {
	var out [][]any
	for _, m := range c.msgs {
		if m[0] == int(t) {
			out = append(out, m)
		}
	}
	return out
}

// about returns the sent messages of type t whose first field is id.
func (c *fakeConn) about(t packet.Type, id ecs.EntityID) [][]any {
	var out [][]any
	for _, m := range c.of(t) {
		if len(m) > 1 && m[1] == int(id) {
			out = append(out, m)
		}
	}
	return out
}

func (c *fakeConn) reset() { c.msgs = nil }

type testWorld struct {
	*World
	formulas *fixedFormulas
}

func newTestWorld(t *testing.T) *testWorld {
	t.Helper()
	return newTestWorldWith(t, Options{ID: "1", Capacity: 10})
}

func newTestWorldWith(t *testing.T, opts Options) *testWorld {
	t.Helper()
	m, err := data.ParseMap([]byte(testMapJSON))
	if err != nil {
		t.Fatalf("parse map: %v", err)
	}
	props, err := data.ParseProperties([]byte(testPropertiesYAML))
	if err != nil {
		t.Fatalf("parse properties: %v", err)
	}
	f := &fixedFormulas{damage: 10}
	w := NewWorld(opts, m, props, f, rand.New(rand.NewSource(7)), epoch, zap.NewNop())
	return &testWorld{World: w, formulas: f}
}

func (w *testWorld) enter(t *testing.T, name string) (*Entity, *fakeConn) {
	t.Helper()
	conn := &fakeConn{}
	p := w.Connect(conn)
	w.Enter(p, name, data.ClothArmor, data.Sword1)
	if !p.InGroup {
		t.Fatalf("%s did not join a group", name)
	}
	return p, conn
}

// mobsOf returns the registered mobs of kind in insertion order.
func (w *testWorld) mobsOf(kind data.Kind) []*Entity {
	var out []*Entity
	w.mobs.Each(func(_ ecs.EntityID, e *Entity) {
		if e.Kind == kind {
			out = append(out, e)
		}
	})
	return out
}

// itemsOf returns the items of kind lying on the map.
func (w *testWorld) itemsOf(kind data.Kind) []*Entity {
	var out []*Entity
	w.items.Each(func(_ ecs.EntityID, e *Entity) {
		if e.Kind == kind {
			out = append(out, e)
		}
	})
	return out
}

func (w *testWorld) advance(d time.Duration) {
	w.Tick(w.sched.Now().Add(d))
}
