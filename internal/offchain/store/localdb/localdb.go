// Package localdb is node-local offchain storage on SQLite: the checkpoint
// and the processor lease for a single node that owns its own state.
package localdb

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"contactledger/internal/offchain/store/checkpoint"
	"contactledger/internal/offchain/store/lock"
	id "contactledger/pkg/domain"
	dErrors "contactledger/pkg/domain-errors"
)

//go:embed schema.sql
var schemaSQL string

// DB is an open node-local database.
type DB struct {
	db    *sql.DB
	clock func() time.Time
}

// Option configures a DB.
type Option func(*DB)

// WithClock injects the time source used for lease expiry.
func WithClock(clock func() time.Time) Option {
	return func(d *DB) {
		if clock != nil {
			d.clock = clock
		}
	}
}

// Open creates or opens the database at path and applies the schema.
// It is safe to call on an existing file.
func Open(path string, opts ...Option) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// one writer; avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to execute schema: %w", err)
	}

	d := &DB{db: db, clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d, nil
}

func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Checkpoint returns the checkpoint view of the database.
func (d *DB) Checkpoint() *Checkpoint {
	return &Checkpoint{db: d.db}
}

// Locker returns the lease lock view of the database.
func (d *DB) Locker() *Locker {
	return &Locker{db: d.db, clock: d.clock}
}

// Checkpoint stores the processor checkpoint in the kv table.
type Checkpoint struct {
	db *sql.DB
}

func (c *Checkpoint) Get(ctx context.Context) (id.EpochNumber, bool, error) {
	var raw string
	err := c.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, checkpoint.Key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, dErrors.Wrap(err, dErrors.CodeCheckpointRead, "read checkpoint")
	}
	epoch, err := checkpoint.Decode(raw)
	if err != nil {
		return 0, true, err
	}
	return epoch, true, nil
}

// Commit keeps the larger of the stored and proposed epochs.
func (c *Checkpoint) Commit(ctx context.Context, epoch id.EpochNumber) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin checkpoint commit: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var raw string
	err = tx.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, checkpoint.Key).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return fmt.Errorf("read checkpoint for commit: %w", err)
	default:
		if cur, decErr := checkpoint.Decode(raw); decErr == nil && cur >= epoch {
			return nil
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, checkpoint.Key, checkpoint.Encode(epoch)); err != nil {
		return fmt.Errorf("commit checkpoint: %w", err)
	}
	return tx.Commit()
}

// SetRaw overwrites the stored checkpoint verbatim.
func (c *Checkpoint) SetRaw(ctx context.Context, raw string) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, checkpoint.Key, raw)
	return err
}

// Locker is a lease lock in the leases table.
type Locker struct {
	db    *sql.DB
	clock func() time.Time
}

// TryLock takes the lease when it is free or expired.
func (l *Locker) TryLock(ctx context.Context, name string, ttl time.Duration) (*lock.Lease, error) {
	now := l.clock()
	lease := &lock.Lease{Name: name, Token: uuid.NewString(), ExpiresAt: now.Add(ttl)}
	res, err := l.db.ExecContext(ctx, `
		INSERT INTO leases (name, token, expires_at) VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			token = excluded.token,
			expires_at = excluded.expires_at
		WHERE leases.expires_at <= ?
	`, name, lease.Token, lease.ExpiresAt.UnixMilli(), now.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", name, err)
	}
	if n == 0 {
		return nil, lock.ErrUnavailable(name)
	}
	return lease, nil
}

func (l *Locker) Release(ctx context.Context, lease *lock.Lease) error {
	if lease == nil {
		return nil
	}
	if _, err := l.db.ExecContext(ctx, `DELETE FROM leases WHERE name = ? AND token = ?`, lease.Name, lease.Token); err != nil {
		return fmt.Errorf("release lock %s: %w", lease.Name, err)
	}
	return nil
}
