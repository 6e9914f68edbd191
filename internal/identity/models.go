// Package identity is the identity exchange: the boundary that maps external
// UUID identifiers to internal identities and back, and records which account
// owns each identity.
package identity

import (
	"time"

	id "contactledger/pkg/domain"
)

// Record is one registered identity.
type Record struct {
	ExternalID id.ExternalID
	Identity   id.Identity
	Owner      id.AccountID
	CreatedAt  time.Time
}
