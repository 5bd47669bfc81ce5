package world

import (
	"sort"

	"github.com/questgo/server/internal/core/ecs"
)

type hateEntry struct {
	id   ecs.EntityID
	hate int
	seq  int // insertion order
}

// Hatelist accumulates hate per attacker. Rank 1 is the most hated id; on
// equal hate the earlier attacker ranks higher.
type Hatelist struct {
	entries []hateEntry
	seq     int
}

// Increase adds points to id, inserting it when absent.
func (h *Hatelist) Increase(id ecs.EntityID, points int) {
	for i := range h.entries {
		if h.entries[i].id == id {
			h.entries[i].hate += points
			return
		}
	}
	h.seq++
	h.entries = append(h.entries, hateEntry{id: id, hate: points, seq: h.seq})
}

func (h *Hatelist) Hates(id ecs.EntityID) bool {
	for _, e := range h.entries {
		if e.id == id {
			return true
		}
	}
	return false
}

// HateFor returns the accumulated hate of id, 0 when absent.
func (h *Hatelist) HateFor(id ecs.EntityID) int {
	for _, e := range h.entries {
		if e.id == id {
			return e.hate
		}
	}
	return 0
}

// Ranked sorts ascending by hate and returns the entry at size-rank. A rank
// outside [1, size] selects the most hated.
func (h *Hatelist) Ranked(rank int) (ecs.EntityID, bool) {
	size := len(h.entries)
	if size == 0 {
		return 0, false
	}
	sorted := make([]hateEntry, size)
	copy(sorted, h.entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].hate != sorted[j].hate {
			return sorted[i].hate < sorted[j].hate
		}
		return sorted[i].seq > sorted[j].seq
	})
	i := size - 1
	if rank >= 1 && rank <= size {
		i = size - rank
	}
	return sorted[i].id, true
}

// Forget removes id and reports whether it was present.
func (h *Hatelist) Forget(id ecs.EntityID) bool {
	for i, e := range h.entries {
		if e.id == id {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (h *Hatelist) Clear() {
	h.entries = h.entries[:0]
}

func (h *Hatelist) Len() int { return len(h.entries) }

// IDs lists the hated ids in insertion order.
func (h *Hatelist) IDs() []int {
	ids := make([]int, len(h.entries))
	for i, e := range h.entries {
		ids[i] = int(e.id)
	}
	return ids
}
