package seed

import (
	"context"
	"fmt"
	"log/slog"

	"clique/internal/matching"
	"clique/internal/models"
	"clique/internal/observability"
)

// DocumentStore is the subset of the store the seeder writes through.
type DocumentStore interface {
	Update(ctx context.Context, fn func(*models.Document) (*models.Document, error)) (*models.Document, error)
}

// Options configuration for the seeder
type Options struct {
	NumUsers int
	// LikeDensity is the chance that a user likes a compatible candidate.
	LikeDensity float64
	// MaxSlots bounds the availability generated per user.
	MaxSlots int
	// Clean replaces the document instead of appending to it.
	Clean bool
	Seed  int64
}

// DefaultOptions returns the options used by the seed command.
func DefaultOptions() Options {
	return Options{NumUsers: 40, LikeDensity: 0.15, MaxSlots: 3}
}

// Seeder writes generated data through a document store.
type Seeder struct {
	store   DocumentStore
	factory *Factory
}

// NewSeeder returns a Seeder over store.
func NewSeeder(store DocumentStore, factory *Factory) *Seeder {
	return &Seeder{store: store, factory: factory}
}

// Run generates opts.NumUsers profiles with availability and a random like
// graph between them, and saves the result.
func (s *Seeder) Run(ctx context.Context, opts Options) (*models.Document, error) {
	doc, err := s.store.Update(ctx, func(current *models.Document) (*models.Document, error) {
		next := models.NewDocument()
		if !opts.Clean {
			next = current.Clone()
		}

		fresh := make([]string, 0, opts.NumUsers)
		for i := 0; i < opts.NumUsers; i++ {
			u := s.factory.BuildProfile()
			if _, taken := next.UserByEmail(u.Email); taken {
				continue
			}
			next.Users = append(next.Users, u)
			next.SetSlots(u.ID, s.factory.BuildAvailability(opts.MaxSlots))
			fresh = append(fresh, u.ID)
		}

		return SeedSocialGraph(next, fresh, opts.LikeDensity, s.factory.Chance), nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}

	observability.GlobalLogger.InfoContext(ctx, "seeded document",
		slog.Int("users", len(doc.Users)),
		slog.Int("matches", len(doc.Matches)),
	)
	return doc, nil
}

// SeedSocialGraph lets every user in ids like each compatible user of doc
// when chance(density) holds. Matches follow from the swipe transition.
func SeedSocialGraph(doc *models.Document, ids []string, density float64, chance func(float64) bool) *models.Document {
	for _, id := range ids {
		viewer, ok := doc.UserByID(id)
		if !ok {
			continue
		}
		self := *viewer
		for _, candidate := range doc.Users {
			if candidate.ID == self.ID {
				continue
			}
			if _, compatible := matching.Score(self, candidate, doc.Likes); !compatible {
				continue
			}
			if !chance(density) {
				continue
			}
			doc, _ = matching.ApplyLike(doc, self.ID, candidate.ID)
		}
	}
	return doc
}
