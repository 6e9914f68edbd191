package domain

import (
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	dErrors "contactledger/pkg/domain-errors"
)

// IdentitySize is the byte length of an internal identity (a BLAKE2b-256 digest).
const IdentitySize = blake2b.Size256

// Identity is the internal, content-derived identifier of a tracked person.
// Invariant: it is always produced by DeriveIdentity or ParseIdentity; the zero
// value is never a valid identity.
type Identity [IdentitySize]byte

// ExternalID is the canonical (lowercase, hyphenated) UUID text of an
// identity as known to the identity exchange.
type ExternalID string

// AccountID is the signer of an authenticated command.
type AccountID string

// EpochNumber is a discrete processing boundary, one per produced block.
type EpochNumber uint64

// DeriveIdentity hashes the 16 UUID bytes of an external identifier into an
// internal identity.
//
// Errors: CodeMalformedIdentity when the input is not a UUID.
func DeriveIdentity(external string) (Identity, error) {
	ext, err := ParseExternalID(external)
	if err != nil {
		return Identity{}, err
	}
	return ext.Identity(), nil
}

// ParseExternalID validates and canonicalises an external identifier.
//
// Errors: CodeMalformedIdentity when the input is empty, not UTF-8, not a
// UUID, or the nil UUID.
func ParseExternalID(s string) (ExternalID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeMalformedIdentity, "identifier cannot be empty")
	}
	if !utf8.ValidString(s) {
		return "", dErrors.New(dErrors.CodeMalformedIdentity, "identifier must be valid UTF-8")
	}
	u, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeMalformedIdentity, "identifier is not a valid UUID")
	}
	if u == uuid.Nil {
		return "", dErrors.New(dErrors.CodeMalformedIdentity, "identifier cannot be the nil UUID")
	}
	return ExternalID(u.String()), nil
}

// Identity derives the internal identity. ext must come from ParseExternalID.
func (e ExternalID) Identity() Identity {
	u := uuid.MustParse(string(e))
	return Identity(blake2b.Sum256(u[:]))
}

func (e ExternalID) String() string {
	return string(e)
}

// ParseIdentity decodes the 64-character hex form of an identity.
//
// Errors: CodeMalformedIdentity on wrong length, non-hex input, or the zero
// identity.
func ParseIdentity(s string) (Identity, error) {
	var id Identity
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if len(s) != hex.EncodedLen(IdentitySize) {
		return id, dErrors.New(dErrors.CodeMalformedIdentity, "identity must be 64 hex characters")
	}
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return Identity{}, dErrors.Wrap(err, dErrors.CodeMalformedIdentity, "identity is not valid hex")
	}
	if id.IsZero() {
		return Identity{}, dErrors.New(dErrors.CodeMalformedIdentity, "identity cannot be zero")
	}
	return id, nil
}

// IsZero reports whether the identity is unset.
func (i Identity) IsZero() bool {
	return i == Identity{}
}

func (i Identity) String() string {
	return hex.EncodeToString(i[:])
}

// MarshalText implements encoding.TextMarshaler so identities serialise as hex.
func (i Identity) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Identity) UnmarshalText(b []byte) error {
	parsed, err := ParseIdentity(string(b))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
