// Package events defines the typed event contract emitted by the ordering
// core.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - user_input.* — utterance capture lifecycle and transcripts.
//   - assistant_reply.* — clarification messages from the interpretation
//     service.
//   - order.* — order draft milestones.
//   - session_state.* — conversation session lifecycle.
//
// Semantics used across the package:
//
//   - Interim: mutable point-in-time transcript snapshot that can change
//     while the user is still speaking.
//   - Final: terminal immutable text for the current utterance.
//   - Captured: the single finalized utterance produced when listening ends.
package events

import "time"

// Kind names an event type within a receiver-facing namespace.
type Kind string

// Event is implemented by every event emitted by the ordering core.
type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

// Base carries the kind and creation timestamp shared by all events.
type Base struct {
	kind      Kind
	timestamp time.Time
}

// NewBase stamps a base with the given kind and the current time.
func NewBase(kind Kind) Base {
	return Base{kind: kind, timestamp: time.Now()}
}

func (b Base) Kind() Kind {
	return b.kind
}

func (b Base) Timestamp() time.Time {
	return b.timestamp
}
