package persist

import (
	"context"
	"time"
)

// PopulationRepo stores the player count of every server process sharing
// the database, so each can report the cluster-wide total.
type PopulationRepo struct {
	db *DB
}

func NewPopulationRepo(db *DB) *PopulationRepo {
	return &PopulationRepo{db: db}
}

// SetPlayerCount upserts this server's current player count.
func (r *PopulationRepo) SetPlayerCount(ctx context.Context, server string, n int) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO world_population (server_name, player_count, updated_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (server_name) DO UPDATE
		 SET player_count = EXCLUDED.player_count, updated_at = EXCLUDED.updated_at`,
		server, n, time.Now(),
	)
	return err
}

// TotalPlayers sums the counts of all servers.
func (r *PopulationRepo) TotalPlayers(ctx context.Context) (int, error) {
	var total int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(player_count), 0) FROM world_population`,
	).Scan(&total)
	return total, err
}
