package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and infrastructure layers return
// these (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: record does not exist in store
// - ErrConflict: a concurrent writer won (stale lease token, stale batch ack)
// - ErrCorrupt: persisted value exists but cannot be decoded
// - ErrUnavailable: service or resource temporarily unavailable
//
// For validation errors (bad input, unknown identities), use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrCorrupt     = errors.New("corrupt value")
	ErrUnavailable = errors.New("unavailable")
)
