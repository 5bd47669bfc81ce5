package packet

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// SessionState represents the session's current protocol phase.
type SessionState int

const (
	StateHandshake     SessionState = iota // connected, waiting for HELLO
	StateInGame                            // entered, alive
	StateDead                              // entered, waiting for a new HELLO
	StateDisconnecting
)

func (s SessionState) String() string {
	switch s {
	case StateHandshake:
		return "Handshake"
	case StateInGame:
		return "InGame"
	case StateDead:
		return "Dead"
	case StateDisconnecting:
		return "Disconnecting"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// ProtocolError is a violation that terminates the session. Reason is the
// human-readable close reason sent to the client.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string { return e.Reason }

// Violation builds a ProtocolError.
func Violation(format string, args ...any) error {
	return &ProtocolError{Reason: fmt.Sprintf(format, args...)}
}

// IsViolation reports whether err carries a close reason.
func IsViolation(err error) (*ProtocolError, bool) {
	var pe *ProtocolError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// HandlerFunc is the callback signature for message handlers.
// The session pointer is passed as an opaque interface to avoid import cycles.
type HandlerFunc func(sess any, r *Reader) error

// DenyFunc decides what happens to a well-formed message arriving in a
// state its handler does not accept: a ProtocolError closes the session,
// nil drops the message.
type DenyFunc func(state SessionState, t Type, msg []any) error

type handlerEntry struct {
	fn            HandlerFunc
	allowedStates map[SessionState]bool
}

// Registry maps message types to handlers with state-based access control.
type Registry struct {
	schema   Schema
	handlers map[Type]*handlerEntry
	deny     DenyFunc
	accepted func(sess any)
	log      *zap.Logger
}

func NewRegistry(schema Schema, log *zap.Logger) *Registry {
	return &Registry{
		schema:   schema,
		handlers: make(map[Type]*handlerEntry),
		log:      log,
	}
}

// Register maps a message type to a handler, restricted to the given session states.
func (reg *Registry) Register(t Type, states []SessionState, fn HandlerFunc) {
	allowed := make(map[SessionState]bool, len(states))
	for _, s := range states {
		allowed[s] = true
	}
	reg.handlers[t] = &handlerEntry{
		fn:            fn,
		allowedStates: allowed,
	}
}

// OnDenied installs the policy for messages outside their allowed states.
func (reg *Registry) OnDenied(fn DenyFunc) { reg.deny = fn }

// OnAccepted installs a hook run for every message that passed validation
// and state checks, right before its handler.
func (reg *Registry) OnAccepted(fn func(sess any)) { reg.accepted = fn }

// Dispatch validates msg against the schema and the session state, then
// calls its handler. Validation failures return a ProtocolError and no
// handler runs.
func (reg *Registry) Dispatch(sess any, state SessionState, msg []any) error {
	t, known := TypeOf(msg)
	if !Check(reg.schema, msg) {
		name := "UNKNOWN"
		if known {
			name = t.String()
		}
		return Violation("Invalid %s message format: %s", name, Render(msg))
	}
	reg.log.Debug("收到訊息",
		zap.String("type", t.String()),
		zap.Int("args", len(msg)-1),
		zap.String("state", state.String()),
	)

	entry, ok := reg.handlers[t]
	if !ok {
		reg.log.Debug("未註冊的訊息類型", zap.String("type", t.String()))
		return nil
	}

	if !entry.allowedStates[state] {
		if reg.deny != nil {
			return reg.deny(state, t, msg)
		}
		return fmt.Errorf("message %s not allowed in state %s", t, state)
	}

	if reg.accepted != nil {
		reg.accepted(sess)
	}
	return reg.safeCall(entry.fn, sess, NewReader(msg), t)
}

// safeCall executes a handler with panic recovery to prevent a single
// bad message from crashing the entire game loop.
func (reg *Registry) safeCall(fn HandlerFunc, sess any, r *Reader, t Type) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reg.log.Error("處理器 panic 已恢復",
				zap.String("type", t.String()),
				zap.Any("panic", rec),
			)
			err = Violation("Internal error handling %s", t)
		}
	}()
	return fn(sess, r)
}
