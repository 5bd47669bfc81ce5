package handler

import (
	"github.com/questgo/server/internal/net"
	"github.com/questgo/server/internal/net/packet"
)

// HandleChat processes CHAT(text). The line goes to the speaker's zone;
// lines that sanitize to nothing are dropped.
func HandleChat(sess *net.Session, r *packet.Reader, deps *Deps) error {
	w, p, ok := playerOf(sess, deps)
	if !ok {
		return nil
	}
	text, ok := sanitizeChat(r.String())
	if !ok {
		return nil
	}
	w.Chat(p, text)
	return nil
}
