package net

import (
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"
	"github.com/questgo/server/internal/net/packet"
	"go.uber.org/zap"
)

// maxCloseReason is the largest reason that fits in a websocket close frame
// next to its 2-byte status code.
const maxCloseReason = 123

// frame is one outbound websocket message: either raw text or the batch of
// messages queued between two text frames.
type frame struct {
	text  string
	batch [][]any
}

// Session represents a single client connection. Network I/O runs in
// dedicated goroutines; game state is accessed only from the game loop.
type Session struct {
	ID   uint64
	conn *websocket.Conn

	state atomic.Int32 // packet.SessionState stored as int32

	InQueue  chan []any  // game loop reads decoded messages from here
	OutQueue chan []byte // writer goroutine reads from here

	IP string

	outBuf []frame // buffered output, flushed by OutputSystem (game loop only)

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	reasonMu  sync.Mutex
	reason    string

	writeTimeout time.Duration

	log *zap.Logger
}

// SessionOptions sizes the per-connection queues and socket limits.
type SessionOptions struct {
	InQueueSize  int
	OutQueueSize int
	WriteTimeout time.Duration
	ReadLimit    int64
}

// NewSession wraps conn. A nil conn yields a detached session whose output
// stays in OutQueue, which is how the game loop is driven in tests.
func NewSession(conn *websocket.Conn, id uint64, opts SessionOptions, log *zap.Logger) *Session {
	if opts.InQueueSize <= 0 {
		opts.InQueueSize = 128
	}
	if opts.OutQueueSize <= 0 {
		opts.OutQueueSize = 256
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	s := &Session{
		ID:           id,
		conn:         conn,
		InQueue:      make(chan []any, opts.InQueueSize),
		OutQueue:     make(chan []byte, opts.OutQueueSize),
		closeCh:      make(chan struct{}),
		writeTimeout: opts.WriteTimeout,
		log:          log.With(zap.Uint64("session", id)),
	}
	if conn != nil {
		s.IP = conn.RemoteAddr().String()
		if opts.ReadLimit > 0 {
			conn.SetReadLimit(opts.ReadLimit)
		}
	}
	s.state.Store(int32(packet.StateHandshake))
	return s
}

func (s *Session) State() packet.SessionState {
	return packet.SessionState(s.state.Load())
}

func (s *Session) SetState(st packet.SessionState) {
	s.state.Store(int32(st))
}

// Start launches the reader and writer goroutines.
func (s *Session) Start() {
	if s.conn == nil {
		return
	}
	go s.readLoop()
	go s.writeLoop()
}

// Send buffers a message. Messages queued in the same tick leave as one
// batch frame when FlushOutput runs.
// Called only from the game loop goroutine, no lock needed on outBuf.
func (s *Session) Send(m packet.Message) {
	if s.closed.Load() {
		return
	}
	values := m.Serialize()
	if n := len(s.outBuf); n > 0 && s.outBuf[n-1].batch != nil {
		s.outBuf[n-1].batch = append(s.outBuf[n-1].batch, values)
		return
	}
	s.outBuf = append(s.outBuf, frame{batch: [][]any{values}})
}

// SendText buffers a raw text frame, kept in order with batched messages.
func (s *Session) SendText(text string) {
	if s.closed.Load() {
		return
	}
	s.outBuf = append(s.outBuf, frame{text: text})
}

// Pending returns the messages buffered since the last flush, text frames
// excluded.
func (s *Session) Pending() [][]any {
	var out [][]any
	for _, f := range s.outBuf {
		out = append(out, f.batch...)
	}
	return out
}

// PendingText returns the text frames buffered since the last flush.
func (s *Session) PendingText() []string {
	var out []string
	for _, f := range s.outBuf {
		if f.batch == nil {
			out = append(out, f.text)
		}
	}
	return out
}

// FlushOutput encodes the output buffer into OutQueue for the writeLoop goroutine.
// Called by OutputSystem once per tick.
// Non-blocking: if OutQueue is full, the session is disconnected (backpressure).
func (s *Session) FlushOutput() {
	for _, f := range s.outBuf {
		data := []byte(f.text)
		if f.batch != nil {
			var err error
			data, err = EncodeBatch(f.batch)
			if err != nil {
				s.log.Error("訊息編碼失敗", zap.Error(err))
				continue
			}
		}
		select {
		case s.OutQueue <- data:
		default:
			s.log.Warn("輸出佇列已滿，斷開慢速連線")
			s.outBuf = s.outBuf[:0]
			s.shutdown("Output queue overflow")
			return
		}
	}
	s.outBuf = s.outBuf[:0]
}

// Close flushes what the game loop already queued, then tears the
// connection down with reason as the close frame text. Safe to call twice.
func (s *Session) Close(reason string) {
	if s.closed.Load() {
		return
	}
	s.FlushOutput()
	s.shutdown(reason)
}

func (s *Session) shutdown(reason string) {
	s.closeOnce.Do(func() {
		s.reasonMu.Lock()
		s.reason = reason
		s.reasonMu.Unlock()
		s.closed.Store(true)
		s.SetState(packet.StateDisconnecting)
		close(s.closeCh)
		if reason != "" {
			s.log.Info("關閉連線", zap.String("reason", reason))
		}
	})
}

// CloseReason returns the reason given to the first Close.
func (s *Session) CloseReason() string {
	s.reasonMu.Lock()
	defer s.reasonMu.Unlock()
	return s.reason
}

func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// Done is closed once the session shuts down.
func (s *Session) Done() <-chan struct{} {
	return s.closeCh
}

// readLoop runs in its own goroutine. It decodes websocket frames and
// pushes them onto InQueue for the game loop to consume.
func (s *Session) readLoop() {
	defer s.shutdown("")

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if !s.closed.Load() {
				s.log.Debug("讀取錯誤", zap.Error(err))
			}
			return
		}

		msg, err := Decode(data)
		if err != nil {
			s.shutdown("Invalid message format: " + truncate(string(data), 64))
			return
		}

		// Block until InQueue has space or session closes. The readLoop
		// goroutine is per-session, so this only stalls this client.
		select {
		case s.InQueue <- msg:
		case <-s.closeCh:
			return
		}
	}
}

// writeLoop runs in its own goroutine. It writes frames from OutQueue and,
// on shutdown, drains what is left before sending the close frame.
func (s *Session) writeLoop() {
	defer s.conn.Close()

	for {
		select {
		case data := <-s.OutQueue:
			if !s.writeOne(data) {
				s.shutdown("")
				return
			}
		case <-s.closeCh:
			for {
				select {
				case data := <-s.OutQueue:
					if !s.writeOne(data) {
						return
					}
				default:
					s.writeClose()
					return
				}
			}
		}
	}
}

func (s *Session) writeOne(data []byte) bool {
	s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		if !s.closed.Load() {
			s.log.Debug("寫入錯誤", zap.Error(err))
		}
		return false
	}
	return true
}

func (s *Session) writeClose() {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, truncate(s.CloseReason(), maxCloseReason))
	deadline := time.Now().Add(s.writeTimeout)
	if err := s.conn.WriteControl(websocket.CloseMessage, msg, deadline); err != nil {
		s.log.Debug("關閉訊框寫入失敗", zap.Error(err))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
