// Package store keeps sliding-window request histories keyed by bucket name.
package store

import (
	"math"
	"time"

	"contactledger/internal/ratelimit/models"
)

func retryAfter(now, resetAt time.Time) int {
	secs := int(math.Ceil(resetAt.Sub(now).Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

func denied(limit int, now, resetAt time.Time) *models.Result {
	return &models.Result{
		Allowed:    false,
		Limit:      limit,
		Remaining:  0,
		ResetAt:    resetAt,
		RetryAfter: retryAfter(now, resetAt),
	}
}
