package ecs

// Removable is implemented by all component stores so the Registry can
// bulk-remove an entity's data from every store on destroy.
type Removable interface {
	Remove(id EntityID)
}

// Store is a generic id-keyed map of component pointers that also keeps
// insertion order, so iteration (and therefore broadcast order) is
// deterministic.
type Store[T any] struct {
	data  map[EntityID]*T
	order []EntityID
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		data: make(map[EntityID]*T, 256),
	}
}

func (s *Store[T]) Set(id EntityID, c *T) {
	if _, ok := s.data[id]; !ok {
		s.order = append(s.order, id)
	}
	s.data[id] = c
}

func (s *Store[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

func (s *Store[T]) Remove(id EntityID) {
	if _, ok := s.data[id]; !ok {
		return
	}
	delete(s.data, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *Store[T]) Len() int {
	return len(s.data)
}

// Each visits components in insertion order. fn may remove the visited id.
func (s *Store[T]) Each(fn func(EntityID, *T)) {
	ids := make([]EntityID, len(s.order))
	copy(ids, s.order)
	for _, id := range ids {
		if c, ok := s.data[id]; ok {
			fn(id, c)
		}
	}
}

// IDs returns a snapshot of the stored ids in insertion order.
func (s *Store[T]) IDs() []EntityID {
	ids := make([]EntityID, len(s.order))
	copy(ids, s.order)
	return ids
}
