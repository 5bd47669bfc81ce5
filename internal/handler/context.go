package handler

import (
	"github.com/questgo/server/internal/core/ecs"
	"github.com/questgo/server/internal/net"
	"github.com/questgo/server/internal/net/packet"
	"github.com/questgo/server/internal/world"
	"go.uber.org/zap"
)

// Deps holds shared dependencies injected into all message handlers.
type Deps struct {
	Worlds *world.Directory
	Log    *zap.Logger
}

// RegisterAll registers all message handlers into the registry.
func RegisterAll(reg *packet.Registry, deps *Deps) {
	reg.OnDenied(denyPolicy)
	reg.OnAccepted(func(sess any) {
		if w, p, ok := deps.Worlds.Lookup(sess.(*net.Session).ID); ok {
			w.ResetIdle(p)
		}
	})

	// Handshake, and revival after death
	reg.Register(packet.TypeHello,
		[]packet.SessionState{packet.StateHandshake, packet.StateDead},
		func(sess any, r *packet.Reader) error {
			return HandleHello(sess.(*net.Session), r, deps)
		},
	)

	inGame := []packet.SessionState{packet.StateInGame}
	handlers := map[packet.Type]func(*net.Session, *packet.Reader, *Deps) error{
		packet.TypeMove:     HandleMove,
		packet.TypeLootMove: HandleLootMove,
		packet.TypeAggro:    HandleAggro,
		packet.TypeAttack:   HandleAttack,
		packet.TypeHit:      HandleHit,
		packet.TypeHurt:     HandleHurt,
		packet.TypeChat:     HandleChat,
		packet.TypeLoot:     HandleLoot,
		packet.TypeTeleport: HandleTeleport,
		packet.TypeZone:     HandleZone,
		packet.TypeWho:      HandleWho,
		packet.TypeOpen:     HandleOpen,
		packet.TypeCheck:    HandleCheck,
	}
	for t, fn := range handlers {
		reg.Register(t, inGame, func(sess any, r *packet.Reader) error {
			return fn(sess.(*net.Session), r, deps)
		})
	}
}

// denyPolicy decides the fate of well-formed messages sent in the wrong
// state: anything before HELLO and a second HELLO close the session, while
// a dead player's traffic is dropped until it says HELLO again.
func denyPolicy(state packet.SessionState, t packet.Type, msg []any) error {
	switch state {
	case packet.StateHandshake:
		return packet.Violation("Invalid handshake message: %s", packet.Render(msg))
	case packet.StateInGame:
		if t == packet.TypeHello {
			return packet.Violation("Cannot initiate handshake twice: %s", packet.Render(msg))
		}
	}
	return nil
}

// playerOf resolves the world and player bound to a session.
func playerOf(sess *net.Session, deps *Deps) (*world.World, *world.Entity, bool) {
	return deps.Worlds.Lookup(sess.ID)
}

func entityID(r *packet.Reader) ecs.EntityID {
	return ecs.EntityID(r.Int())
}
