package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ServerOptions configures the HTTP listener and the sessions it creates.
type ServerOptions struct {
	BindAddress string
	WSPath      string
	StatusPath  string
	Session     SessionOptions
}

// Server upgrades websocket connections into Sessions and serves the
// population status route. New sessions reach the game loop through a
// channel; closed ones are noticed by the loop itself.
type Server struct {
	listener net.Listener
	engine   *gin.Engine
	srv      *http.Server
	upgrader websocket.Upgrader
	opts     ServerOptions

	nextID   atomic.Uint64
	newConns chan *Session
	status   atomic.Value // []byte, JSON array of world populations

	log *zap.Logger
}

func NewServer(opts ServerOptions, log *zap.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", opts.BindAddress)
	if err != nil {
		return nil, err
	}
	return newServer(ln, opts, log), nil
}

func newServer(ln net.Listener, opts ServerOptions, log *zap.Logger) *Server {
	if opts.WSPath == "" {
		opts.WSPath = "/"
	}
	if opts.StatusPath == "" {
		opts.StatusPath = "/status"
	}
	s := &Server{
		listener: ln,
		opts:     opts,
		newConns: make(chan *Session, 64),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}
	s.status.Store([]byte("[]"))

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET(opts.StatusPath, s.handleStatus)
	engine.GET(opts.WSPath, s.handleUpgrade)
	s.engine = engine
	s.srv = &http.Server{
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// AcceptLoop runs in its own goroutine and serves HTTP until Shutdown.
func (s *Server) AcceptLoop() {
	if err := s.srv.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.Error("HTTP 服務異常結束", zap.Error(err))
	}
}

// Handler exposes the route table for in-process use.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleUpgrade(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Debug("websocket 升級失敗", zap.Error(err))
		return
	}

	id := s.nextID.Add(1)
	sess := NewSession(conn, id, s.opts.Session, s.log)
	sess.Start()

	s.log.Info(fmt.Sprintf("玩家連線  session=%d  ip=%s", id, sess.IP))

	select {
	case s.newConns <- sess:
	default:
		s.log.Warn("連線佇列已滿，拒絕新連線")
		sess.Close("Server busy")
	}
}

func (s *Server) handleStatus(c *gin.Context) {
	c.Data(http.StatusOK, "application/json", s.status.Load().([]byte))
}

// SetPopulation publishes the per-world player counts served on the status route.
func (s *Server) SetPopulation(counts []int) {
	if counts == nil {
		counts = []int{}
	}
	data, err := json.Marshal(counts)
	if err != nil {
		return
	}
	s.status.Store(data)
}

// NewSessions returns the channel of newly connected sessions.
func (s *Server) NewSessions() <-chan *Session {
	return s.newConns
}

// Shutdown stops accepting new connections.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Addr returns the listener's address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}
