package ecs

import "testing"

func TestIDPoolBands(t *testing.T) {
	mobs := NewIDPool(100, 3)
	items := NewIDPool(200, 3)
	first := mobs.Create()
	if first != 100 {
		t.Fatalf("expected 100, got %d", first)
	}
	mobs.Create()
	mobs.Create()
	if wrapped := mobs.Create(); wrapped != 100 {
		t.Fatalf("expected wrap to 100, got %d", wrapped)
	}
	if !items.Contains(items.Create()) {
		t.Fatal("item id outside its band")
	}
	if items.Contains(first) {
		t.Fatal("mob id reported inside the item band")
	}
}

func TestStoreKeepsInsertionOrder(t *testing.T) {
	s := NewStore[string]()
	a, b, c := "a", "b", "c"
	s.Set(3, &c)
	s.Set(1, &a)
	s.Set(2, &b)
	s.Set(1, &a)

	var got []EntityID
	s.Each(func(id EntityID, _ *string) { got = append(got, id) })
	if len(got) != 3 || got[0] != 3 || got[1] != 1 || got[2] != 2 {
		t.Fatalf("expected [3 1 2], got %v", got)
	}

	s.Each(func(id EntityID, _ *string) {
		if id == 1 {
			s.Remove(1)
		}
	})
	if s.Has(1) || s.Len() != 2 {
		t.Fatalf("expected id 1 removed, len=%d", s.Len())
	}
	ids := s.IDs()
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 2 {
		t.Fatalf("expected [3 2], got %v", ids)
	}
}

func TestRegistryRemoveAll(t *testing.T) {
	reg := NewRegistry()
	ints := NewStore[int]()
	strs := NewStore[string]()
	reg.Register(ints)
	reg.Register(strs)
	n, s := 1, "x"
	ints.Set(7, &n)
	strs.Set(7, &s)
	reg.RemoveAll(7)
	if ints.Has(7) || strs.Has(7) {
		t.Fatal("expected entity removed from every store")
	}
}
