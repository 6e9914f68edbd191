package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"contactledger/internal/flags"
	id "contactledger/pkg/domain"
	"contactledger/pkg/platform/sentinel"
	txcontext "contactledger/pkg/platform/tx"
)

// PostgresStore persists flags in the flags table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Set(ctx context.Context, identity id.Identity, flagType id.FlagType, when time.Time) (*flags.Flag, error) {
	exec := txcontext.ExecutorFrom(ctx, s.db)
	_, err := exec.ExecContext(ctx, `
		INSERT INTO flags (id, flag_type, recorded_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			flag_type = EXCLUDED.flag_type,
			recorded_at = EXCLUDED.recorded_at
	`, identity[:], string(flagType), when)
	if err != nil {
		return nil, fmt.Errorf("set flag: %w", err)
	}
	ft := flagType
	return &flags.Flag{ID: identity, FlagType: &ft, Timestamp: when}, nil
}

func (s *PostgresStore) Get(ctx context.Context, identity id.Identity) (*flags.Flag, error) {
	exec := txcontext.ExecutorFrom(ctx, s.db)
	var (
		flagType sql.NullString
		when     time.Time
	)
	err := exec.QueryRowContext(ctx, `
		SELECT flag_type, recorded_at FROM flags WHERE id = $1
	`, identity[:]).Scan(&flagType, &when)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get flag: %w", err)
	}
	f := &flags.Flag{ID: identity, Timestamp: when}
	if flagType.Valid {
		ft, err := id.ParseFlagType(flagType.String)
		if err != nil {
			return nil, fmt.Errorf("flag_type %q: %w", flagType.String, sentinel.ErrCorrupt)
		}
		f.FlagType = &ft
	}
	return f, nil
}

func (s *PostgresStore) IsExposed(ctx context.Context, identity id.Identity) (bool, error) {
	f, err := s.Get(ctx, identity)
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return f.Exposed(), nil
}
