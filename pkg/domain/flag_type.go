package domain

import dErrors "contactledger/pkg/domain-errors"

// FlagType is the exposure classification attached to an identity.
// Invariant: the value must be one of the supported flag types.
//
// Usage: construct via ParseFlagType at trust boundaries; direct casting
// bypasses validation.
type FlagType string

const (
	FlagPositive   FlagType = "positive"
	FlagNegative   FlagType = "negative"
	FlagSuspicious FlagType = "suspicious"
)

var validFlagTypes = map[FlagType]bool{
	FlagPositive:   true,
	FlagNegative:   true,
	FlagSuspicious: true,
}

// ParseFlagType constructs a FlagType from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseFlagType(s string) (FlagType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "flag_type cannot be empty")
	}
	f := FlagType(s)
	if !f.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid flag_type")
	}
	return f, nil
}

// IsValid checks if the flag type is one of the supported enum values.
func (f FlagType) IsValid() bool {
	return validFlagTypes[f]
}

// Exposes reports whether an identity carrying this flag counts as exposed
// for contact propagation. Positive and Suspicious expose; Negative does not.
func (f FlagType) Exposes() bool {
	return f == FlagPositive || f == FlagSuspicious
}

func (f FlagType) String() string {
	return string(f)
}
