package ecs

// EntityID is the wire-visible numeric id of an entity.
type EntityID int

func (id EntityID) IsZero() bool { return id == 0 }

// IDPool hands out ids from a reserved band so ids of different entity
// types never collide and the type can be read back from the id alone.
type IDPool struct {
	base EntityID
	size EntityID
	next EntityID
}

func NewIDPool(base, size EntityID) *IDPool {
	return &IDPool{base: base, size: size}
}

// Create returns the next id in the band. Ids wrap inside the band; a band
// sized far above any live population never hands out a live id twice.
func (p *IDPool) Create() EntityID {
	id := p.base + p.next
	p.next++
	if p.next >= p.size {
		p.next = 0
	}
	return id
}

// Contains reports whether id belongs to this band.
func (p *IDPool) Contains(id EntityID) bool {
	return id >= p.base && id < p.base+p.size
}
