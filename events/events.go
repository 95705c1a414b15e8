// Package events is the element-scoped event surface consumed by indicator
// and badge collaborators outside the engine. Sinks receive "checking
// started", "result ready" and "check failed" transitions; the engine never
// blocks on a sink and one failing sink does not silence the others.
package events

import (
	"context"
	"time"
)

// Kind is an event type.
type Kind string

const (
	CheckStarted Kind = "check_started"
	ResultReady  Kind = "result_ready" // Changes carries N, zero for clean text
	CheckFailed  Kind = "check_failed"
)

// Event is one engine transition, scoped to an element.
type Event struct {
	Kind      Kind   `json:"kind"`
	ElementID string `json:"element_id"`
	CheckID   string `json:"check_id"`
	Changes   int    `json:"changes,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp int64  `json:"timestamp"` // epoch milliseconds
}

// New builds an event stamped with the current time.
func New(kind Kind, elementID, checkID string) Event {
	return Event{
		Kind:      kind,
		ElementID: elementID,
		CheckID:   checkID,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Sink delivers events to a backend.
type Sink interface {
	Send(ctx context.Context, ev Event) error
	Close() error
}

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Send(context.Context, Event) error { return nil }
func (discard) Close() error                      { return nil }
