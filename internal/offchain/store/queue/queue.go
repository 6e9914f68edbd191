// Package queue holds pending offchain requests between processing passes.
//
// DrainAll moves everything pending into a single in-flight batch. The batch
// stays in flight until Ack; a batch that is never acknowledged (crash, apply
// failure, lease lost) is handed out again, ahead of newer requests, by the
// next DrainAll. Every drain issues a fresh token so a late Ack from an
// earlier holder cannot discard requests it never saw.
package queue

import "errors"

const (
	// PendingKey is the FIFO of requests not yet drained.
	PendingKey = "contact_tracing_ocw::pending_requests"
	// InflightKey is the drained, unacknowledged batch.
	InflightKey = "contact_tracing_ocw::inflight_requests"
	// TokenKey identifies the current in-flight batch.
	TokenKey = "contact_tracing_ocw::inflight_token"
	// DeadKey collects queued entries that could not be decoded.
	DeadKey = "contact_tracing_ocw::requests:dead"
)

// ErrBatchSuperseded is returned by Ack when the batch was re-drained by
// another pass after it was handed out.
var ErrBatchSuperseded = errors.New("queue: batch superseded by a later drain")
