// Package flags holds the current exposure flag of each identity.
package flags

import (
	"time"

	id "contactledger/pkg/domain"
)

// Flag is the single live flag of an identity. FlagType is nil when a
// record exists without a classification.
type Flag struct {
	ID        id.Identity  `json:"id"`
	FlagType  *id.FlagType `json:"flag_type,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// Exposed reports whether the flag marks its identity as exposed.
func (f *Flag) Exposed() bool {
	return f != nil && f.FlagType != nil && f.FlagType.Exposes()
}
