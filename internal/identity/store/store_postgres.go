package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"contactledger/internal/identity"
	id "contactledger/pkg/domain"
	"contactledger/pkg/platform/sentinel"
)

// uniqueViolation is the Postgres SQLSTATE for unique constraint failures.
const uniqueViolation = "23505"

// PostgresStore persists identity records in the identities table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, rec *identity.Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO identities (external_id, identity, owner, created_at)
		VALUES ($1, $2, $3, $4)
	`, string(rec.ExternalID), rec.Identity[:], string(rec.Owner), rec.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert identity: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByExternal(ctx context.Context, external id.ExternalID) (*identity.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT external_id, identity, owner, created_at FROM identities WHERE external_id = $1
	`, string(external))
	return scanRecord(row)
}

func (s *PostgresStore) FindByIdentity(ctx context.Context, internal id.Identity) (*identity.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT external_id, identity, owner, created_at FROM identities WHERE identity = $1
	`, internal[:])
	return scanRecord(row)
}

func scanRecord(row *sql.Row) (*identity.Record, error) {
	var (
		rec      identity.Record
		external string
		raw      []byte
		owner    string
	)
	if err := row.Scan(&external, &raw, &owner, &rec.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan identity: %w", err)
	}
	if len(raw) != id.IdentitySize {
		return nil, fmt.Errorf("identity column has %d bytes: %w", len(raw), sentinel.ErrCorrupt)
	}
	copy(rec.Identity[:], raw)
	rec.ExternalID = id.ExternalID(external)
	rec.Owner = id.AccountID(owner)
	return &rec, nil
}

// isUniqueViolation matches both pgx and lib/pq error shapes.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	var coded interface{ SQLState() string }
	if errors.As(err, &coded) {
		return coded.SQLState() == uniqueViolation
	}
	return false
}
