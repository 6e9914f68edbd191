// Package ledger publishes the observational events emitted by state
// transitions. Delivery is best effort: events are never retried and a
// failed delivery never fails the transition that produced it.
package ledger

import (
	"time"

	id "contactledger/pkg/domain"
)

// EventType names a ledger event.
type EventType string

const (
	EventContactAdded   EventType = "contact_added"
	EventContactFlagged EventType = "contact_flagged"
)

// Event is transport-agnostic so sinks can fan out.
type Event struct {
	Type       EventType     `json:"type"`
	Identity   *id.Identity  `json:"identity,omitempty"`
	ExternalID id.ExternalID `json:"external_id,omitempty"`
	FlagType   id.FlagType   `json:"flag_type,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
	RequestID  string        `json:"request_id,omitempty"`
}

// ContactAdded is emitted with the reporting identity.
func ContactAdded(identity id.Identity) Event {
	return Event{Type: EventContactAdded, Identity: &identity}
}

// ContactFlagged is emitted with the resolved external id and the new flag.
func ContactFlagged(external id.ExternalID, flagType id.FlagType) Event {
	return Event{Type: EventContactFlagged, ExternalID: external, FlagType: flagType}
}

// Key is the partitioning key: the subject of the event.
func (e Event) Key() string {
	if e.Identity != nil {
		return e.Identity.String()
	}
	return string(e.ExternalID)
}
