// Package exposure records who must be told about an exposed identity.
package exposure

import (
	"time"

	id "contactledger/pkg/domain"
)

// Notice says Subject should be notified because Via was flagged exposed.
// Notices are keyed by (Subject, Via).
type Notice struct {
	Subject    id.Identity `json:"subject"`
	Via        id.Identity `json:"via"`
	NotifiedAt time.Time   `json:"notified_at"`
}
