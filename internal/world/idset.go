package world

import "github.com/questgo/server/internal/core/ecs"

// idSet is an insertion-ordered set of entity ids. Broadcast fan-out walks
// these, so order must be deterministic.
type idSet struct {
	index map[ecs.EntityID]int
	ids   []ecs.EntityID
}

func newIDSet() *idSet {
	return &idSet{index: make(map[ecs.EntityID]int)}
}

func (s *idSet) Add(id ecs.EntityID) bool {
	if _, ok := s.index[id]; ok {
		return false
	}
	s.index[id] = len(s.ids)
	s.ids = append(s.ids, id)
	return true
}

func (s *idSet) Remove(id ecs.EntityID) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	delete(s.index, id)
	s.ids = append(s.ids[:i], s.ids[i+1:]...)
	for j := i; j < len(s.ids); j++ {
		s.index[s.ids[j]] = j
	}
	return true
}

func (s *idSet) Has(id ecs.EntityID) bool {
	_, ok := s.index[id]
	return ok
}

func (s *idSet) Len() int { return len(s.ids) }

// Slice returns a copy, safe to iterate while the set changes.
func (s *idSet) Slice() []ecs.EntityID {
	out := make([]ecs.EntityID, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *idSet) Clear() {
	clear(s.index)
	s.ids = s.ids[:0]
}
