package checkpoint

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	id "contactledger/pkg/domain"
	dErrors "contactledger/pkg/domain-errors"
)

// PostgresStore keeps the checkpoint as a row of offchain_kv.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context) (id.EpochNumber, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM offchain_kv WHERE key = $1`, Key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, dErrors.Wrap(err, dErrors.CodeCheckpointRead, "read checkpoint")
	}
	epoch, err := Decode(raw)
	if err != nil {
		return 0, true, err
	}
	return epoch, true, nil
}

// Commit keeps the larger of the stored and proposed epochs.
func (s *PostgresStore) Commit(ctx context.Context, epoch id.EpochNumber) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO offchain_kv (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = GREATEST(offchain_kv.value::numeric, EXCLUDED.value::numeric)::text,
			updated_at = NOW()
	`, Key, Encode(epoch))
	if err != nil {
		return fmt.Errorf("commit checkpoint: %w", err)
	}
	return nil
}
