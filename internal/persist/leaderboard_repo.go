package persist

import (
	"context"
	"errors"

	"github.com/lastcentaur/server/internal/system"
	"github.com/lastcentaur/server/internal/world"
)

// LeaderboardRepo stores finished runs in Postgres. It implements
// system.EntrySink for write-through from the in-memory board.
type LeaderboardRepo struct {
	db *DB
}

func NewLeaderboardRepo(db *DB) *LeaderboardRepo {
	return &LeaderboardRepo{db: db}
}

// SaveEntry upserts one entry; the board has already applied the
// strictly-more-achievements rule.
func (r *LeaderboardRepo) SaveEntry(ctx context.Context, e system.LeaderboardEntry) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO leaderboard_entries
		   (player_id, player_name, completion_days, completion_hours, completion_mins,
		    achievements, path_type, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (player_id) DO UPDATE SET
		   player_name = EXCLUDED.player_name,
		   completion_days = EXCLUDED.completion_days,
		   completion_hours = EXCLUDED.completion_hours,
		   completion_mins = EXCLUDED.completion_mins,
		   achievements = EXCLUDED.achievements,
		   path_type = EXCLUDED.path_type,
		   completed_at = EXCLUDED.completed_at`,
		e.PlayerID, e.PlayerName,
		e.CompletionTime.Days, e.CompletionTime.Hours, e.CompletionTime.Minutes,
		e.Achievements, string(e.PathType), e.Date,
	)
	if err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

// LoadAll returns every stored entry, for seeding the in-memory board at
// startup.
func (r *LeaderboardRepo) LoadAll(ctx context.Context) ([]system.LeaderboardEntry, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT player_id, player_name, completion_days, completion_hours, completion_mins,
		        achievements, path_type, completed_at
		 FROM leaderboard_entries`)
	if err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}
	defer rows.Close()

	var out []system.LeaderboardEntry
	for rows.Next() {
		var e system.LeaderboardEntry
		var path string
		if err := rows.Scan(&e.PlayerID, &e.PlayerName,
			&e.CompletionTime.Days, &e.CompletionTime.Hours, &e.CompletionTime.Minutes,
			&e.Achievements, &path, &e.Date); err != nil {
			return nil, err
		}
		e.PathType = world.PathType(path)
		out = append(out, e)
	}
	return out, rows.Err()
}
