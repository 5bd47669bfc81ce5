package persist

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// PopulationStore is the subset of PopulationRepo the reporter needs.
type PopulationStore interface {
	SetPlayerCount(ctx context.Context, server string, n int) error
	TotalPlayers(ctx context.Context) (int, error)
}

// Reporter publishes the local player count and caches the shared total.
// It runs on its own goroutine so database latency never reaches the game
// loop; the loop only touches the atomics.
type Reporter struct {
	store  PopulationStore
	server string
	local  atomic.Int64
	total  atomic.Int64 // -1 until the first successful read
	log    *zap.Logger
}

func NewReporter(store PopulationStore, server string, log *zap.Logger) *Reporter {
	r := &Reporter{store: store, server: server, log: log}
	r.total.Store(-1)
	return r
}

// SetLocal records this process's player count. Game loop side.
func (r *Reporter) SetLocal(n int) {
	r.local.Store(int64(n))
}

// Total returns the last shared total, or false before any was read.
func (r *Reporter) Total() (int, bool) {
	t := r.total.Load()
	if t < 0 {
		return 0, false
	}
	return int(t), true
}

// Sync writes the local count and refreshes the cached total once.
func (r *Reporter) Sync(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := r.store.SetPlayerCount(ctx, r.server, int(r.local.Load())); err != nil {
		r.log.Warn("人數寫入失敗", zap.Error(err))
		return
	}
	total, err := r.store.TotalPlayers(ctx)
	if err != nil {
		r.log.Warn("人數讀取失敗", zap.Error(err))
		return
	}
	r.total.Store(int64(total))
}

// Run syncs every interval until ctx is done, then zeroes this server's row.
func (r *Reporter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.SetLocal(0)
			r.Sync(context.Background())
			return
		case <-ticker.C:
			r.Sync(ctx)
		}
	}
}
