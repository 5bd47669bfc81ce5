package handler

import (
	"github.com/questgo/server/internal/net"
	"github.com/questgo/server/internal/net/packet"
)

// HandleMove processes MOVE(x, y). Invalid targets are ignored.
func HandleMove(sess *net.Session, r *packet.Reader, deps *Deps) error {
	w, p, ok := playerOf(sess, deps)
	if !ok {
		return nil
	}
	x, y := r.Int(), r.Int()
	w.Move(p, x, y)
	return nil
}

// HandleLootMove processes LOOTMOVE(x, y, item): walking onto an item.
func HandleLootMove(sess *net.Session, r *packet.Reader, deps *Deps) error {
	w, p, ok := playerOf(sess, deps)
	if !ok {
		return nil
	}
	x, y := r.Int(), r.Int()
	w.LootMove(p, x, y, entityID(r))
	return nil
}

// HandleTeleport processes TELEPORT(x, y).
func HandleTeleport(sess *net.Session, r *packet.Reader, deps *Deps) error {
	w, p, ok := playerOf(sess, deps)
	if !ok {
		return nil
	}
	x, y := r.Int(), r.Int()
	w.Teleport(p, x, y)
	return nil
}

// HandleZone processes ZONE(): the client crossed a zone border.
func HandleZone(sess *net.Session, _ *packet.Reader, deps *Deps) error {
	if w, p, ok := playerOf(sess, deps); ok {
		w.Zone(p)
	}
	return nil
}
