package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	id "contactledger/pkg/domain"
	dErrors "contactledger/pkg/domain-errors"
	"contactledger/pkg/platform/sentinel"
)

// Exchange is the read-only port the ledger uses to talk to the identity
// provider.
type Exchange interface {
	CheckExists(ctx context.Context, external string) (bool, error)
	Resolve(ctx context.Context, internal id.Identity) (id.ExternalID, bool, error)
	DeriveInternal(external id.ExternalID) (id.Identity, error)
	OwnerOf(ctx context.Context, internal id.Identity) (id.AccountID, bool, error)
}

// Store persists identity records.
type Store interface {
	// Create returns sentinel.ErrConflict when the external id is already registered.
	Create(ctx context.Context, rec *Record) error
	FindByExternal(ctx context.Context, external id.ExternalID) (*Record, error)
	FindByIdentity(ctx context.Context, internal id.Identity) (*Record, error)
}

// Registry is the reference identity provider backed by a Store.
type Registry struct {
	store Store
	clock func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock sets the time source used for CreatedAt.
func WithClock(clock func() time.Time) Option {
	return func(r *Registry) {
		if clock != nil {
			r.clock = clock
		}
	}
}

func NewRegistry(store Store, opts ...Option) *Registry {
	r := &Registry{store: store, clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Register adds an external id owned by owner. Registering the same id for
// the same owner again is a no-op; a different owner is a conflict.
func (r *Registry) Register(ctx context.Context, external string, owner id.AccountID) (*Record, error) {
	ext, err := id.ParseExternalID(external)
	if err != nil {
		return nil, err
	}
	if owner == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "owner is required")
	}
	rec := &Record{
		ExternalID: ext,
		Identity:   ext.Identity(),
		Owner:      owner,
		CreatedAt:  r.clock().UTC(),
	}
	err = r.store.Create(ctx, rec)
	if errors.Is(err, sentinel.ErrConflict) {
		existing, findErr := r.store.FindByExternal(ctx, ext)
		if findErr != nil {
			return nil, fmt.Errorf("load existing identity: %w", findErr)
		}
		if existing.Owner == owner {
			return existing, nil
		}
		return nil, dErrors.New(dErrors.CodeConflict, "identity already registered to another account")
	}
	if err != nil {
		return nil, fmt.Errorf("register identity: %w", err)
	}
	return rec, nil
}

// CheckExists reports whether the external id is registered. Malformed
// input is simply unknown.
func (r *Registry) CheckExists(ctx context.Context, external string) (bool, error) {
	ext, err := id.ParseExternalID(external)
	if err != nil {
		return false, nil
	}
	_, err = r.store.FindByExternal(ctx, ext)
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check identity: %w", err)
	}
	return true, nil
}

// Resolve maps an internal identity back to its external id.
func (r *Registry) Resolve(ctx context.Context, internal id.Identity) (id.ExternalID, bool, error) {
	rec, err := r.store.FindByIdentity(ctx, internal)
	if errors.Is(err, sentinel.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("resolve identity: %w", err)
	}
	return rec.ExternalID, true, nil
}

func (r *Registry) DeriveInternal(external id.ExternalID) (id.Identity, error) {
	return id.DeriveIdentity(string(external))
}

// OwnerOf returns the account that registered the identity.
func (r *Registry) OwnerOf(ctx context.Context, internal id.Identity) (id.AccountID, bool, error) {
	rec, err := r.store.FindByIdentity(ctx, internal)
	if errors.Is(err, sentinel.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup identity owner: %w", err)
	}
	return rec.Owner, true, nil
}
