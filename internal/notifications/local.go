package notifications

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"

	"clique/internal/observability"
)

// LocalFeed delivers change events to subscribers in the same process.
// Delivery is synchronous on the publishing goroutine.
type LocalFeed struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]func(ChangeEvent)
}

// NewLocalFeed returns an empty in-process feed.
func NewLocalFeed() *LocalFeed {
	return &LocalFeed{subs: make(map[string]map[int]func(ChangeEvent))}
}

// PublishChange calls every subscriber of event.Key.
func (f *LocalFeed) PublishChange(ctx context.Context, event ChangeEvent) error {
	f.mu.RLock()
	handlers := make([]func(ChangeEvent), 0, len(f.subs[event.Key]))
	for _, fn := range f.subs[event.Key] {
		handlers = append(handlers, fn)
	}
	f.mu.RUnlock()

	for _, fn := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					observability.GlobalLogger.ErrorContext(ctx, "panic in change subscriber",
						slog.Any("panic", r),
						slog.String("stack", string(debug.Stack())),
					)
				}
			}()
			fn(event)
		}()
	}
	return nil
}

// StartChangeSubscriber registers onChange until ctx is cancelled.
func (f *LocalFeed) StartChangeSubscriber(ctx context.Context, key string, onChange func(ChangeEvent)) error {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	if f.subs[key] == nil {
		f.subs[key] = make(map[int]func(ChangeEvent))
	}
	f.subs[key][id] = onChange
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subs[key], id)
		if len(f.subs[key]) == 0 {
			delete(f.subs, key)
		}
		f.mu.Unlock()
	}()
	return nil
}

// Subscribers returns how many handlers are registered for key.
func (f *LocalFeed) Subscribers(key string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs[key])
}
