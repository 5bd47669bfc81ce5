package world

import (
	"time"

	"go.uber.org/zap"
)

type binding struct {
	world  *World
	player *Entity
}

// Directory holds every world of this server and knows which world and
// player each session is bound to. Game loop only, no locks.
type Directory struct {
	worlds   []*World
	sessions map[uint64]binding
	log      *zap.Logger
}

func NewDirectory(worlds []*World, log *zap.Logger) *Directory {
	return &Directory{
		worlds:   worlds,
		sessions: make(map[uint64]binding),
		log:      log,
	}
}

func (d *Directory) Worlds() []*World { return d.worlds }

// Select returns the first ready world with room for another player.
func (d *Directory) Select() (*World, bool) {
	for _, w := range d.worlds {
		if w.HasRoom() {
			return w, true
		}
	}
	return nil, false
}

// Assign binds a new session to a world and creates its player.
func (d *Directory) Assign(sessionID uint64, conn Conn) (*World, *Entity, bool) {
	w, ok := d.Select()
	if !ok {
		return nil, nil, false
	}
	p := w.Connect(conn)
	d.sessions[sessionID] = binding{world: w, player: p}
	d.log.Debug("連線分配到世界",
		zap.Uint64("session", sessionID),
		zap.String("world", w.ID()),
		zap.Int("player", int(p.ID)),
	)
	return w, p, true
}

// Lookup returns the world and player bound to a session.
func (d *Directory) Lookup(sessionID uint64) (*World, *Entity, bool) {
	b, ok := d.sessions[sessionID]
	if !ok {
		return nil, nil, false
	}
	return b.world, b.player, true
}

// Release disconnects the session's player and forgets the binding.
// Unknown sessions are ignored.
func (d *Directory) Release(sessionID uint64) {
	b, ok := d.sessions[sessionID]
	if !ok {
		return
	}
	delete(d.sessions, sessionID)
	b.world.Disconnect(b.player)
}

// Sessions returns the number of bound sessions.
func (d *Directory) Sessions() int { return len(d.sessions) }

// Tick advances every world.
func (d *Directory) Tick(now time.Time) {
	for _, w := range d.worlds {
		w.Tick(now)
	}
}

// Populations lists each world's player count in order.
func (d *Directory) Populations() []int {
	out := make([]int, len(d.worlds))
	for i, w := range d.worlds {
		out[i] = w.PlayerCount()
	}
	return out
}

// TotalPlayers sums the local population.
func (d *Directory) TotalPlayers() int {
	n := 0
	for _, w := range d.worlds {
		n += w.PlayerCount()
	}
	return n
}

// SetTotalSource installs fn on every world.
func (d *Directory) SetTotalSource(fn TotalFunc) {
	for _, w := range d.worlds {
		w.SetTotalSource(fn)
	}
}

// BroadcastPopulation pushes a fresh POPULATION to every world.
func (d *Directory) BroadcastPopulation() {
	for _, w := range d.worlds {
		if w.Ready() {
			w.updatePopulation()
		}
	}
}

// Stop cancels the timers of every world.
func (d *Directory) Stop() {
	for _, w := range d.worlds {
		w.Stop()
	}
}
