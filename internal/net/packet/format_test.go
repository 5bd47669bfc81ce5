package packet

import "testing"

func TestCheckAcceptsWellFormed(t *testing.T) {
	cases := [][]any{
		{float64(TypeHello), "bob", float64(21), float64(60)},
		{float64(TypeMove), float64(10), float64(20)},
		{float64(TypeLootMove), float64(10), float64(20), float64(300000001)},
		{float64(TypeZone)},
		{float64(TypeWho), float64(1)},
		{float64(TypeWho), float64(1), float64(2), float64(3)},
		{float64(TypeChat), ""},
	}
	for _, msg := range cases {
		if !Check(ClientSchema, msg) {
			t.Errorf("expected %v to be valid", msg)
		}
	}
}

func TestCheckRejectsMalformed(t *testing.T) {
	cases := [][]any{
		{},
		{"4", float64(1), float64(2)},
		{float64(4.5), float64(1), float64(2)},
		{float64(TypeMove), float64(10)},
		{float64(TypeMove), float64(10), float64(20), float64(30)},
		{float64(TypeMove), "10", float64(20)},
		{float64(TypeHello), float64(1), float64(21), float64(60)},
		{float64(TypeWho)},
		{float64(TypeWho), float64(1), "x"},
		{float64(TypeZone), float64(1)},
		{float64(TypeWelcome), float64(1), "a", float64(1), float64(1), float64(80)},
		{float64(99)},
	}
	for _, msg := range cases {
		if Check(ClientSchema, msg) {
			t.Errorf("expected %v to be rejected", msg)
		}
	}
}

func TestRender(t *testing.T) {
	got := Render([]any{float64(4), float64(10), "abc", float64(1.5), nil})
	if got != "4,10,abc,1.5," {
		t.Fatalf("unexpected render %q", got)
	}
	if Render([]any{float64(500000000)}) != "500000000" {
		t.Fatalf("large ids must render without exponent")
	}
}

func TestTypeString(t *testing.T) {
	if TypeLootMove.String() != "LOOTMOVE" {
		t.Fatalf("expected LOOTMOVE, got %s", TypeLootMove)
	}
	if Type(77).String() != "UNKNOWN(77)" {
		t.Fatalf("expected UNKNOWN(77), got %s", Type(77))
	}
}

func TestReader(t *testing.T) {
	r := NewReader([]any{float64(TypeWho), float64(1), float64(2.0), float64(3)})
	if r.Type() != TypeWho {
		t.Fatalf("expected WHO, got %s", r.Type())
	}
	if !r.IsInt() {
		t.Fatal("expected an integral value next")
	}
	ids := r.Ints()
	if len(ids) != 3 || ids[0] != 1 || ids[2] != 3 {
		t.Fatalf("unexpected ids %v", ids)
	}
	if r.Remaining() != 0 || r.Int() != 0 || r.String() != "" {
		t.Fatal("exhausted reader must yield zero values")
	}

	r = NewReader([]any{float64(TypeHello), "bob", float64(21.5)})
	if r.String() != "bob" {
		t.Fatal("expected name")
	}
	if r.IsInt() {
		t.Fatal("21.5 is not integral")
	}
}
