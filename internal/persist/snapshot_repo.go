package persist

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// SnapshotRepo is the Postgres-backed Store. Connection errors surface as
// ErrUnavailable so the caller keeps playing.
type SnapshotRepo struct {
	db *DB
}

func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

func (r *SnapshotRepo) Put(ctx context.Context, instanceID string, snapshot []byte) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO snapshots (instance_id, data, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (instance_id)
		 DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		instanceID, snapshot,
	)
	if err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}

func (r *SnapshotRepo) Get(ctx context.Context, instanceID string) ([]byte, error) {
	var data []byte
	err := r.db.Pool.QueryRow(ctx,
		`SELECT data FROM snapshots WHERE instance_id = $1`, instanceID,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}
	return data, nil
}

func (r *SnapshotRepo) Delete(ctx context.Context, instanceID string) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM snapshots WHERE instance_id = $1`, instanceID)
	if err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}
