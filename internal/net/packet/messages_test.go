package packet

import (
	"reflect"
	"testing"
)

func TestMessageLayouts(t *testing.T) {
	cases := []struct {
		name string
		msg  Message
		want []any
	}{
		{"welcome", Welcome{ID: 5, Name: "bob", X: 3, Y: 4, HitPoints: 80}, []any{int(TypeWelcome), 5, "bob", 3, 4, 80}},
		{"health", Health{Points: 50}, []any{int(TypeHealth), 50}},
		{"health regen", Health{Points: 52, Regen: true}, []any{int(TypeHealth), 52, 1}},
		{"drop", Drop{MobID: 1, ItemID: 2, Kind: 35, Haters: []int{7, 8}}, []any{int(TypeDrop), 1, 2, 35, []int{7, 8}}},
		{"list", List{IDs: []int{1, 2}}, []any{int(TypeList), 1, 2}},
		{"spawn", Spawn{State: []any{9, 2, 3, 4, 2}}, []any{int(TypeSpawn), 9, 2, 3, 4, 2}},
		{"population", Population{World: 3, Total: 10}, []any{int(TypePopulation), 3, 10}},
		{"hp", HitPoints{Max: 110}, []any{int(TypeHP), 110}},
	}
	for _, c := range cases {
		if got := c.msg.Serialize(); !reflect.DeepEqual(got, c.want) {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, got)
		}
	}
}

func TestDropCopiesHaters(t *testing.T) {
	haters := []int{1, 2}
	out := Drop{Haters: haters}.Serialize()
	haters[0] = 99
	if out[4].([]int)[0] != 1 {
		t.Fatal("serialized drop must not alias the hater slice")
	}
}
