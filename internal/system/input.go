package system

import (
	"time"

	coresys "github.com/questgo/server/internal/core/system"
	"github.com/questgo/server/internal/net"
	"github.com/questgo/server/internal/net/packet"
	"github.com/questgo/server/internal/world"
	"go.uber.org/zap"
)

// Handshake text frame and the close reason used when every world is full.
const (
	ReadyNotice      = "go"
	ServerFullReason = "Server is full"
)

// SessionSource hands freshly upgraded sessions to the game loop.
type SessionSource interface {
	NewSessions() <-chan *net.Session
}

// InputSystem accepts new sessions, drains message queues through the
// registry and cleans up closed sessions. Phase 0 (Input).
type InputSystem struct {
	source     SessionSource
	registry   *packet.Registry
	store      *net.SessionStore
	worlds     *world.Directory
	maxPerTick int
	log        *zap.Logger
}

func NewInputSystem(
	source SessionSource,
	registry *packet.Registry,
	store *net.SessionStore,
	worlds *world.Directory,
	maxPerTick int,
	log *zap.Logger,
) *InputSystem {
	if maxPerTick <= 0 {
		maxPerTick = 32
	}
	return &InputSystem{
		source:     source,
		registry:   registry,
		store:      store,
		worlds:     worlds,
		maxPerTick: maxPerTick,
		log:        log,
	}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	// Accept new sessions
	for {
		select {
		case sess := <-s.source.NewSessions():
			s.accept(sess)
		default:
			goto doneNew
		}
	}
doneNew:

	s.store.ForEach(func(sess *net.Session) {
		if sess.IsClosed() {
			s.handleDisconnect(sess)
			return
		}
		s.drain(sess)
	})
}

func (s *InputSystem) accept(sess *net.Session) {
	s.store.Add(sess)
	w, p, ok := s.worlds.Assign(sess.ID, sess)
	if !ok {
		s.log.Warn("所有世界已滿，拒絕連線", zap.Uint64("session", sess.ID))
		sess.Close(ServerFullReason)
		return
	}
	sess.SendText(ReadyNotice)
	s.log.Debug("連線就緒",
		zap.Uint64("session", sess.ID),
		zap.String("world", w.ID()),
		zap.Int("player", int(p.ID)),
	)
}

// drain dispatches up to maxPerTick messages. A protocol violation closes
// the session, releases its player at once and discards the rest of its
// queue.
func (s *InputSystem) drain(sess *net.Session) {
	for i := 0; i < s.maxPerTick; i++ {
		select {
		case msg := <-sess.InQueue:
			err := s.registry.Dispatch(sess, sess.State(), msg)
			if err == nil {
				continue
			}
			if pe, ok := packet.IsViolation(err); ok {
				sess.Close(pe.Reason)
				s.worlds.Release(sess.ID)
				return
			}
			s.log.Debug("訊息分派錯誤",
				zap.Uint64("session", sess.ID),
				zap.Error(err),
			)
		default:
			return
		}
	}
}

// handleDisconnect releases the player of a session closed outside the
// loop: timers, world state and the despawn and population broadcasts.
// Players already released are skipped by the directory.
func (s *InputSystem) handleDisconnect(sess *net.Session) {
	s.worlds.Release(sess.ID)
	s.store.Remove(sess.ID)
	s.log.Debug("連線清理完成",
		zap.Uint64("session", sess.ID),
		zap.String("reason", sess.CloseReason()),
	)
}

// SessionCount returns the current number of active sessions.
func (s *InputSystem) SessionCount() int {
	return s.store.Len()
}
