package handler

import (
	"github.com/questgo/server/internal/net"
	"github.com/questgo/server/internal/net/packet"
)

// HandleLoot processes LOOT(item).
func HandleLoot(sess *net.Session, r *packet.Reader, deps *Deps) error {
	if w, p, ok := playerOf(sess, deps); ok {
		w.Loot(p, entityID(r))
	}
	return nil
}

// HandleOpen processes OPEN(chest).
func HandleOpen(sess *net.Session, r *packet.Reader, deps *Deps) error {
	if w, p, ok := playerOf(sess, deps); ok {
		w.Open(p, entityID(r))
	}
	return nil
}
