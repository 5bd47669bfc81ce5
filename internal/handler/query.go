package handler

import (
	"github.com/questgo/server/internal/core/ecs"
	"github.com/questgo/server/internal/net"
	"github.com/questgo/server/internal/net/packet"
)

// HandleWho processes WHO(id...): the client asks for the spawn state of
// entities it heard about but has not seen.
func HandleWho(sess *net.Session, r *packet.Reader, deps *Deps) error {
	w, p, ok := playerOf(sess, deps)
	if !ok {
		return nil
	}
	raw := r.Ints()
	ids := make([]ecs.EntityID, len(raw))
	for i, id := range raw {
		ids[i] = ecs.EntityID(id)
	}
	w.Who(p, ids)
	return nil
}

// HandleCheck processes CHECK(checkpoint).
func HandleCheck(sess *net.Session, r *packet.Reader, deps *Deps) error {
	if w, p, ok := playerOf(sess, deps); ok {
		w.Check(p, r.Int())
	}
	return nil
}
