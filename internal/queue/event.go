// Package queue defines message payloads exchanged over the message broker
// and the background consumer that reacts to them.
package queue

// DestinationQueueName is the queue carrying destination change events.
const DestinationQueueName = "destination.changed"

// DestinationChangedEvent is published whenever a destination is created,
// updated or deleted.  It carries enough information for consumers to
// invalidate caches and write an audit line without querying the primary
// database.
type DestinationChangedEvent struct {
	Action        string `json:"action"` // created | updated | deleted
	DestinationID uint64 `json:"destination_id"`
	Slug          string `json:"slug,omitempty"`
	Name          string `json:"name,omitempty"`
	ChangedBy     string `json:"changed_by,omitempty"` // auth user id, when known
	ChangedAt     string `json:"changed_at"`           // RFC3339
}
