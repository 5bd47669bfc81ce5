package handler

import (
	"github.com/questgo/server/internal/data"
	"github.com/questgo/server/internal/net"
	"github.com/questgo/server/internal/net/packet"
	"go.uber.org/zap"
)

// HandleHello processes HELLO(name, armor, weapon): the handshake on a
// fresh session and the revival of a dead player.
func HandleHello(sess *net.Session, r *packet.Reader, deps *Deps) error {
	w, p, ok := playerOf(sess, deps)
	if !ok {
		return nil
	}
	name := sanitizeName(r.String())
	armor := data.Kind(r.Int())
	weapon := data.Kind(r.Int())

	revive := sess.State() == packet.StateDead
	w.Enter(p, name, armor, weapon)
	sess.SetState(packet.StateInGame)

	deps.Log.Debug("玩家進入世界",
		zap.Uint64("session", sess.ID),
		zap.String("world", w.ID()),
		zap.String("name", name),
		zap.Bool("revive", revive),
	)
	return nil
}
