package handler

import (
	"github.com/questgo/server/internal/net"
	"github.com/questgo/server/internal/net/packet"
	"go.uber.org/zap"
)

// HandleAggro processes AGGRO(mob): the player walked into a mob's range.
func HandleAggro(sess *net.Session, r *packet.Reader, deps *Deps) error {
	if w, p, ok := playerOf(sess, deps); ok {
		w.Aggro(p, entityID(r))
	}
	return nil
}

// HandleAttack processes ATTACK(mob): the player picks a target.
func HandleAttack(sess *net.Session, r *packet.Reader, deps *Deps) error {
	if w, p, ok := playerOf(sess, deps); ok {
		w.Attack(p, entityID(r))
	}
	return nil
}

// HandleHit processes HIT(mob): the player's blow lands.
func HandleHit(sess *net.Session, r *packet.Reader, deps *Deps) error {
	if w, p, ok := playerOf(sess, deps); ok {
		w.Hit(p, entityID(r))
	}
	return nil
}

// HandleHurt processes HURT(mob): a mob's blow lands on the player. A
// killed player waits in StateDead for a new HELLO.
func HandleHurt(sess *net.Session, r *packet.Reader, deps *Deps) error {
	w, p, ok := playerOf(sess, deps)
	if !ok {
		return nil
	}
	w.Hurt(p, entityID(r))
	if p.Player.Dead {
		sess.SetState(packet.StateDead)
		deps.Log.Debug("玩家死亡",
			zap.Uint64("session", sess.ID),
			zap.String("name", p.Player.Name),
		)
	}
	return nil
}
