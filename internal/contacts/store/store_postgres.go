package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"contactledger/internal/contacts"
	id "contactledger/pkg/domain"
	"contactledger/pkg/platform/sentinel"
	txcontext "contactledger/pkg/platform/tx"
)

// PostgresStore persists the contact graph in the contacts table.
// Writes join the ambient transaction when one is attached to ctx.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, a, b id.Identity, when time.Time) (*contacts.Contact, error) {
	exec := txcontext.ExecutorFrom(ctx, s.db)
	_, err := exec.ExecContext(ctx, `
		INSERT INTO contacts (id, contact_id, recorded_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id, contact_id) DO UPDATE SET
			recorded_at = EXCLUDED.recorded_at
	`, a[:], b[:], when)
	if err != nil {
		return nil, fmt.Errorf("insert contact: %w", err)
	}
	return &contacts.Contact{ID: a, ContactID: b, Timestamp: when}, nil
}

func (s *PostgresStore) Get(ctx context.Context, a, b id.Identity) (*contacts.Contact, error) {
	exec := txcontext.ExecutorFrom(ctx, s.db)
	var when time.Time
	err := exec.QueryRowContext(ctx, `
		SELECT recorded_at FROM contacts WHERE id = $1 AND contact_id = $2
	`, a[:], b[:]).Scan(&when)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return &contacts.Contact{ID: a, ContactID: b, Timestamp: when}, nil
}

func (s *PostgresStore) ListByID(ctx context.Context, a id.Identity) ([]*contacts.Contact, error) {
	exec := txcontext.ExecutorFrom(ctx, s.db)
	rows, err := exec.QueryContext(ctx, `
		SELECT contact_id, recorded_at FROM contacts WHERE id = $1
		ORDER BY recorded_at, contact_id
	`, a[:])
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var out []*contacts.Contact
	for rows.Next() {
		var (
			raw  []byte
			when time.Time
		)
		if err := rows.Scan(&raw, &when); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		if len(raw) != id.IdentitySize {
			return nil, fmt.Errorf("contact_id has %d bytes: %w", len(raw), sentinel.ErrCorrupt)
		}
		c := &contacts.Contact{ID: a, Timestamp: when}
		copy(c.ContactID[:], raw)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return out, nil
}
