// Package notifications delivers document change events between store
// instances.
package notifications

import (
	"context"
	"time"
)

// ChangeEvent announces that the document under Key was overwritten.
type ChangeEvent struct {
	Key     string    `json:"key"`
	Origin  string    `json:"origin"`
	Version int       `json:"version"`
	At      time.Time `json:"at"`
}

// Feed publishes change events and delivers them to subscribers of a key.
// Subscriptions end when ctx is cancelled.
type Feed interface {
	PublishChange(ctx context.Context, event ChangeEvent) error
	StartChangeSubscriber(ctx context.Context, key string, onChange func(ChangeEvent)) error
}

// ChangeChannel returns the channel name for a document key.
func ChangeChannel(key string) string {
	return "clique:changed:" + key
}
