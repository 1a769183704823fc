// Package store holds the application document: it loads and saves the
// whole document through a repository, serializes read-modify-write
// updates and fans fresh snapshots out to observers.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"clique/internal/models"
	"clique/internal/notifications"
	"clique/internal/observability"
	"clique/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultKey is the document key used when none is configured.
const DefaultKey = "clique-db"

// Store is the state container shared by every service.
type Store struct {
	repo   repository.DocumentRepository
	feed   notifications.Feed
	key    string
	origin string
	logger *observability.StoreLogger

	mu      sync.Mutex
	subMu   sync.RWMutex
	nextSub int
	subs    map[int]func(*models.Document)
}

// Option configures a Store.
type Option func(*Store)

// WithFeed publishes saves to feed and lets OnExternalChange listen on it.
func WithFeed(feed notifications.Feed) Option {
	return func(s *Store) { s.feed = feed }
}

// WithOrigin overrides the writer id stamped on change events.
func WithOrigin(origin string) Option {
	return func(s *Store) { s.origin = origin }
}

// New creates a Store for key on repo.
func New(repo repository.DocumentRepository, key string, opts ...Option) *Store {
	if key == "" {
		key = DefaultKey
	}
	s := &Store{
		repo:   repo,
		key:    key,
		origin: uuid.NewString(),
		subs:   make(map[int]func(*models.Document)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = observability.NewStoreLogger(repo.Name(), key)
	return s
}

// Key returns the document key.
func (s *Store) Key() string { return s.key }

// Origin returns the writer id of this Store.
func (s *Store) Origin() string { return s.origin }

// Load returns the stored document, or the empty default when nothing was
// stored yet or the stored bytes cannot be used. Only repository I/O
// failures are returned.
func (s *Store) Load(ctx context.Context) (*models.Document, error) {
	span, ctx := observability.NewSpan(ctx, "store.Load", attribute.String("store.key", s.key))
	defer span.End()

	body, err := s.repo.Get(ctx, s.key)
	if errors.Is(err, repository.ErrDocumentNotFound) {
		observability.RecordStoreOperation("load", nil)
		return models.NewDocument(), nil
	}
	if err != nil {
		span.SetError(err)
		observability.RecordStoreOperation("load", err)
		s.logger.LogError(ctx, err, "load")
		return nil, models.NewInternalError(err)
	}
	observability.RecordStoreOperation("load", nil)

	doc, err := Decode(body)
	if err != nil {
		reason := "malformed"
		if errors.Is(err, ErrUnsupportedSchema) {
			reason = "unsupported_schema"
		}
		observability.StoreLoadFallbacks.WithLabelValues(reason).Inc()
		s.logger.LogFallback(ctx, err)
		return models.NewDocument(), nil
	}
	s.logger.LogLoad(ctx, map[string]interface{}{"bytes": len(body), "users": len(doc.Users)})
	return doc, nil
}

// Save overwrites the stored document, publishes a change event and
// notifies local observers.
func (s *Store) Save(ctx context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, doc)
}

func (s *Store) save(ctx context.Context, doc *models.Document) error {
	span, ctx := observability.NewSpan(ctx, "store.Save", attribute.String("store.key", s.key))
	defer span.End()

	body, err := Encode(doc)
	if err != nil {
		span.SetError(err)
		observability.RecordStoreOperation("save", err)
		return models.NewInternalError(err)
	}
	if err := s.repo.Put(ctx, s.key, models.CurrentSchemaVersion, body); err != nil {
		span.SetError(err)
		observability.RecordStoreOperation("save", err)
		s.logger.LogError(ctx, err, "save")
		return models.NewInternalError(err)
	}
	observability.RecordStoreOperation("save", nil)
	s.logger.LogSave(ctx, map[string]interface{}{"bytes": len(body)})

	if s.feed != nil {
		event := notifications.ChangeEvent{
			Key:     s.key,
			Origin:  s.origin,
			Version: models.CurrentSchemaVersion,
			At:      time.Now().UTC(),
		}
		if err := s.feed.PublishChange(ctx, event); err != nil {
			s.logger.LogError(ctx, err, "publish")
		}
	}

	snapshot := doc.Clone()
	snapshot.SchemaVersion = models.CurrentSchemaVersion
	s.notify(snapshot)
	return nil
}

// Update loads the document, applies fn and saves the result. Updates in
// this process are serialized. Nothing is written when fn fails or
// returns nil.
func (s *Store) Update(ctx context.Context, fn func(*models.Document) (*models.Document, error)) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	next, err := fn(current)
	if err != nil {
		return nil, err
	}
	if next == nil {
		return current, nil
	}
	if err := s.save(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Subscribe registers fn for every saved or externally refreshed
// document. The returned func removes it.
func (s *Store) Subscribe(fn func(*models.Document)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(doc *models.Document) {
	s.subMu.RLock()
	handlers := make([]func(*models.Document), 0, len(s.subs))
	for _, fn := range s.subs {
		handlers = append(handlers, fn)
	}
	s.subMu.RUnlock()

	for _, fn := range handlers {
		fn(doc.Clone())
	}
}

// OnExternalChange reloads the document whenever another writer saves the
// key and passes the fresh document to fn and to local observers. Events
// from this Store are ignored. It stops when ctx is cancelled.
func (s *Store) OnExternalChange(ctx context.Context, fn func(*models.Document)) error {
	if s.feed == nil {
		return nil
	}
	return s.feed.StartChangeSubscriber(ctx, s.key, func(event notifications.ChangeEvent) {
		if event.Origin == s.origin {
			return
		}
		s.logger.LogExternalChange(ctx, event.Origin, event.Version)
		doc, err := s.Load(ctx)
		if err != nil {
			return
		}
		if fn != nil {
			fn(doc.Clone())
		}
		s.notify(doc)
	})
}

// Ping checks the backing repository.
func (s *Store) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// Backend names the repository in use.
func (s *Store) Backend() string {
	return s.repo.Name()
}
