package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"contactledger/internal/exposure"
	id "contactledger/pkg/domain"
	"contactledger/pkg/platform/sentinel"
)

// PostgresStore persists notices in exposure_notices.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Record inserts all subjects in one round trip; existing pairs are kept.
func (s *PostgresStore) Record(ctx context.Context, via id.Identity, subjects []id.Identity, when time.Time) (int, error) {
	if len(subjects) == 0 {
		return 0, nil
	}
	raw := make([][]byte, 0, len(subjects))
	for _, subject := range subjects {
		raw = append(raw, subject[:])
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO exposure_notices (subject, via, notified_at)
		SELECT unnest($1::bytea[]), $2, $3
		ON CONFLICT (subject, via) DO NOTHING
	`, pq.Array(raw), via[:], when)
	if err != nil {
		return 0, fmt.Errorf("record notices batch: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("record notices rows affected: %w", err)
	}
	return int(n), nil
}

func (s *PostgresStore) ListBySubject(ctx context.Context, subject id.Identity) ([]*exposure.Notice, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT via, notified_at FROM exposure_notices WHERE subject = $1 ORDER BY notified_at
	`, subject[:])
	if err != nil {
		return nil, fmt.Errorf("list notices: %w", err)
	}
	defer rows.Close()

	var out []*exposure.Notice
	for rows.Next() {
		var (
			via  []byte
			when time.Time
		)
		if err := rows.Scan(&via, &when); err != nil {
			return nil, fmt.Errorf("scan notice: %w", err)
		}
		if len(via) != id.IdentitySize {
			return nil, fmt.Errorf("notice via has %d bytes: %w", len(via), sentinel.ErrCorrupt)
		}
		n := &exposure.Notice{Subject: subject, NotifiedAt: when}
		copy(n.Via[:], via)
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notices: %w", err)
	}
	return out, nil
}
