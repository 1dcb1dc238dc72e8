package pubsub

import (
	"context"
	"encoding/json"
)

// Well-known topics.
const (
	// TopicDocument carries document lifecycle events (loaded, reloaded,
	// reload failures).
	TopicDocument = "document"
	// TopicGraph carries graph rebuild events after every edit.
	TopicGraph = "graph"
)

// Event represents a pub/sub event
type Event struct {
	Topic   string          `json:"topic"`   // Subscription topic ("document", "graph")
	Type    string          `json:"type"`    // Event type (e.g., "loaded", "reloaded", "rebuilt")
	Data    json.RawMessage `json:"data"`    // Event payload
	Version int             `json:"version"` // Version number for ordering
}

// Subscription represents a client subscription to a topic
type Subscription interface {
	// Topic returns the subscription topic
	Topic() string

	// Events returns a channel for receiving events
	Events() <-chan Event

	// Close closes the subscription
	Close() error
}

// Publisher manages pub/sub subscriptions and event publishing
type Publisher interface {
	// Subscribe creates a new subscription to a topic
	// Context cancellation will close the subscription
	Subscribe(ctx context.Context, topic string) (Subscription, error)

	// Publish sends an event to all subscribers of a topic
	Publish(topic string, eventType string, data interface{}) error

	// Close shuts down the publisher and all subscriptions
	Close() error
}

// DocumentStatus describes the edited document's lifecycle state
type DocumentStatus struct {
	Path    string `json:"path"`
	State   string `json:"state"`   // loaded, reloaded, reload_failed
	Message string `json:"message"` // Human-readable detail
}

// GraphUpdate summarizes the graph after a rebuild
type GraphUpdate struct {
	Primitives  int  `json:"primitives"`
	Connections int  `json:"connections"`
	CanUndo     bool `json:"can_undo"`
	CanRedo     bool `json:"can_redo"`
}
