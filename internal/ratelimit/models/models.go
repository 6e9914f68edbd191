// Package models holds the rate limit decision types shared by stores and middleware.
package models

import (
	"fmt"
	"time"

	id "contactledger/pkg/domain"
)

// Policy bounds how many commands a single signer may submit per window.
type Policy struct {
	Limit  int
	Window time.Duration
}

// Enabled reports whether the policy limits anything.
func (p Policy) Enabled() bool {
	return p.Limit > 0 && p.Window > 0
}

// Result is the outcome of a single admission check.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int // seconds
}

// SignerKey names the bucket that holds a signer's command history.
func SignerKey(account id.AccountID) string {
	return fmt.Sprintf("ratelimit:signer:%s", account)
}
