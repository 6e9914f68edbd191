// Package contacts holds the directional contact graph.
package contacts

import (
	"time"

	id "contactledger/pkg/domain"
)

// Contact records that ID reported an interaction with ContactID.
// (A,B) never implies (B,A).
type Contact struct {
	ID        id.Identity `json:"id"`
	ContactID id.Identity `json:"contact_id"`
	Timestamp time.Time   `json:"timestamp"`
}
