package world

import (
	"github.com/questgo/server/internal/core/ecs"
	"github.com/questgo/server/internal/data"
	"github.com/questgo/server/internal/net/packet"
)

// group is the interest-management cell: every entity visible from the
// zone, the players standing in it, and entities that just became visible
// and still need a SPAWN.
type group struct {
	entities *idSet
	players  *idSet
	incoming []*Entity
}

func (w *World) initGroups() {
	w.m.ForEachGroup(func(id data.GroupID) {
		w.groups[id] = &group{entities: newIDSet(), players: newIDSet()}
	})
}

// handleEntityGroupMembership moves e to the groups around its current
// tile. Returns true when the zone changed.
func (w *World) handleEntityGroupMembership(e *Entity) bool {
	gid := data.GroupAt(e.X, e.Y)
	if e.InGroup && e.Group == gid {
		return false
	}
	if _, ok := w.groups[gid]; !ok {
		return false
	}
	w.addAsIncomingToGroup(e, gid)
	old := w.removeFromGroups(e)
	added := w.addToGroup(e, gid)
	if e.Player != nil {
		e.recentlyLeft = groupDifference(old, added)
	}
	return true
}

// addAsIncomingToGroup queues e for a SPAWN in the groups that see gid but
// do not know e yet. Loot dropped by a mob is announced by DROP instead.
func (w *World) addAsIncomingToGroup(e *Entity, gid data.GroupID) {
	if e.Item != nil && e.Item.dropped(e.Kind) {
		return
	}
	for _, id := range w.m.AdjacentGroups(gid) {
		g, ok := w.groups[id]
		if !ok || g.entities.Has(e.ID) {
			continue
		}
		g.incoming = append(g.incoming, e)
	}
}

func (w *World) addToGroup(e *Entity, gid data.GroupID) []data.GroupID {
	var added []data.GroupID
	for _, id := range w.m.AdjacentGroups(gid) {
		g, ok := w.groups[id]
		if !ok {
			continue
		}
		g.entities.Add(e.ID)
		added = append(added, id)
	}
	e.Group = gid
	e.InGroup = true
	if e.Player != nil {
		w.groups[gid].players.Add(e.ID)
	}
	return added
}

// removeFromGroups detaches e from every group it was visible in and
// returns those groups.
func (w *World) removeFromGroups(e *Entity) []data.GroupID {
	if !e.InGroup {
		return nil
	}
	var old []data.GroupID
	if e.Player != nil {
		if g, ok := w.groups[e.Group]; ok {
			g.players.Remove(e.ID)
		}
	}
	for _, id := range w.m.AdjacentGroups(e.Group) {
		g, ok := w.groups[id]
		if !ok {
			continue
		}
		g.entities.Remove(e.ID)
		old = append(old, id)
	}
	e.InGroup = false
	return old
}

func groupDifference(a, b []data.GroupID) []data.GroupID {
	var out []data.GroupID
	for _, g := range a {
		if !containsGroupID(b, g) {
			out = append(out, g)
		}
	}
	return out
}

func containsGroupID(list []data.GroupID, g data.GroupID) bool {
	for _, v := range list {
		if v == g {
			return true
		}
	}
	return false
}

// processGroups flushes queued spawns to the players of each group.
func (w *World) processGroups() {
	if w.m == nil {
		return
	}
	w.m.ForEachGroup(func(id data.GroupID) {
		g := w.groups[id]
		if len(g.incoming) == 0 {
			return
		}
		incoming := g.incoming
		g.incoming = nil
		for _, e := range incoming {
			// a queued entity may have left or been removed since
			if !w.entities.Has(e.ID) {
				continue
			}
			spawn := packet.Spawn{State: e.State()}
			if e.Player != nil {
				w.PushToGroup(id, spawn, e.ID)
			} else {
				w.PushToGroup(id, spawn, 0)
			}
		}
	})
}

// --- push helpers ---

// PushToPlayer sends m to a connected player.
func (w *World) PushToPlayer(e *Entity, m packet.Message) {
	if e == nil || e.Player == nil || !w.players.Has(e.ID) {
		return
	}
	e.Player.Conn.Send(m)
}

// PushToGroup sends m to every player standing in group id, except ignore.
func (w *World) PushToGroup(id data.GroupID, m packet.Message, ignore ecs.EntityID) {
	g, ok := w.groups[id]
	if !ok {
		return
	}
	for _, pid := range g.players.Slice() {
		if pid == ignore {
			continue
		}
		if p, ok := w.players.Get(pid); ok {
			p.Player.Conn.Send(m)
		}
	}
}

// PushToAdjacentGroups sends m to every group that sees id.
func (w *World) PushToAdjacentGroups(id data.GroupID, m packet.Message, ignore ecs.EntityID) {
	for _, gid := range w.m.AdjacentGroups(id) {
		w.PushToGroup(gid, m, ignore)
	}
}

// pushToAdjacent broadcasts around e's current group.
func (w *World) pushToAdjacent(e *Entity, m packet.Message, ignore ecs.EntityID) {
	if !e.InGroup {
		return
	}
	w.PushToAdjacentGroups(e.Group, m, ignore)
}

// PushBroadcast sends m to every connected player, except ignore.
func (w *World) PushBroadcast(m packet.Message, ignore ecs.EntityID) {
	w.players.Each(func(id ecs.EntityID, p *Entity) {
		if id != ignore {
			p.Player.Conn.Send(m)
		}
	})
}

// pushToPreviousGroups tells the groups p just left, then forgets them.
func (w *World) pushToPreviousGroups(p *Entity, m packet.Message) {
	for _, gid := range p.recentlyLeft {
		w.PushToGroup(gid, m, p.ID)
	}
	p.recentlyLeft = nil
}

// PushRelevantEntityListTo sends p the ids of every entity visible from
// its group.
func (w *World) PushRelevantEntityListTo(p *Entity) {
	if !p.InGroup {
		return
	}
	g, ok := w.groups[p.Group]
	if !ok {
		return
	}
	ids := make([]int, 0, g.entities.Len())
	for _, id := range g.entities.Slice() {
		if id != p.ID {
			ids = append(ids, int(id))
		}
	}
	if len(ids) > 0 {
		w.PushToPlayer(p, packet.List{IDs: ids})
	}
}

// PushSpawnsToPlayer answers a WHO query with one SPAWN per known id.
func (w *World) PushSpawnsToPlayer(p *Entity, ids []ecs.EntityID) {
	for _, id := range ids {
		e, ok := w.entities.Get(id)
		if !ok {
			continue
		}
		w.PushToPlayer(p, packet.Spawn{State: e.State()})
	}
}
