// Package models defines the offchain action log entries.
package models

import (
	"encoding/json"
	"fmt"

	id "contactledger/pkg/domain"
	dErrors "contactledger/pkg/domain-errors"
)

// Kind tags a Request.
type Kind string

const (
	KindFlagID        Kind = "flag_id"
	KindAddToUUIDPool Kind = "add_to_uuid_pool"
)

// Request is one deferred action. Exactly one payload field is set,
// matching Kind.
type Request struct {
	Kind     Kind
	Identity id.Identity
	External id.ExternalID
}

// FlagID propagates an exposure flag for identity.
func FlagID(identity id.Identity) Request {
	return Request{Kind: KindFlagID, Identity: identity}
}

// AddToUUIDPool registers an issued external id in the pool.
func AddToUUIDPool(external id.ExternalID) Request {
	return Request{Kind: KindAddToUUIDPool, External: external}
}

// Validate checks that the payload matches the kind.
func (r Request) Validate() error {
	switch r.Kind {
	case KindFlagID:
		if r.Identity.IsZero() {
			return dErrors.New(dErrors.CodeInvalidInput, "flag_id request requires an identity")
		}
	case KindAddToUUIDPool:
		if r.External == "" {
			return dErrors.New(dErrors.CodeInvalidInput, "add_to_uuid_pool request requires an external id")
		}
	default:
		return dErrors.New(dErrors.CodeInvalidInput, fmt.Sprintf("unknown request kind %q", r.Kind))
	}
	return nil
}

func (r Request) String() string {
	switch r.Kind {
	case KindFlagID:
		return fmt.Sprintf("FlagID(%s)", r.Identity)
	case KindAddToUUIDPool:
		return fmt.Sprintf("AddToUUIDPool(%s)", r.External)
	default:
		return fmt.Sprintf("Unknown(%s)", r.Kind)
	}
}

type wireRequest struct {
	Kind       Kind           `json:"kind"`
	Identity   *id.Identity   `json:"identity,omitempty"`
	ExternalID *id.ExternalID `json:"external_id,omitempty"`
}

func (r Request) MarshalJSON() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	w := wireRequest{Kind: r.Kind}
	switch r.Kind {
	case KindFlagID:
		identity := r.Identity
		w.Identity = &identity
	case KindAddToUUIDPool:
		external := r.External
		w.ExternalID = &external
	}
	return json.Marshal(w)
}

func (r *Request) UnmarshalJSON(b []byte) error {
	var w wireRequest
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	out := Request{Kind: w.Kind}
	if w.Identity != nil {
		out.Identity = *w.Identity
	}
	if w.ExternalID != nil {
		out.External = *w.ExternalID
	}
	if err := out.Validate(); err != nil {
		return err
	}
	*r = out
	return nil
}

// Batch is the drained queue contents held in flight until acknowledged.
// An empty batch has no token.
type Batch struct {
	Token    string
	Requests []Request
}

func (b *Batch) Empty() bool {
	return b == nil || len(b.Requests) == 0
}
