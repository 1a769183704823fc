package service

import (
	"context"
	"log/slog"

	"clique/internal/featureflags"
	"clique/internal/matching"
	"clique/internal/models"
	"clique/internal/observability"
)

// SwipeResult reports the outcome of a like.
type SwipeResult struct {
	Matched bool                `json:"matched"`
	Partner *models.UserProfile `json:"partner,omitempty"`
}

// SwipeService records likes and passes.
type SwipeService struct {
	store DocumentStore
	flags *featureflags.Manager
}

// NewSwipeService returns a new SwipeService.
func NewSwipeService(store DocumentStore, flags *featureflags.Manager) *SwipeService {
	return &SwipeService{store: store, flags: flags}
}

func (s *SwipeService) target(doc *models.Document, session, candidateID string) (*models.UserProfile, *models.UserProfile, error) {
	me, err := viewer(doc, session)
	if err != nil {
		return nil, nil, err
	}
	if candidateID == me.ID {
		return nil, nil, models.NewValidationError("Cannot swipe on yourself")
	}
	candidate, ok := doc.UserByID(candidateID)
	if !ok {
		return nil, nil, models.NewNotFoundError("User", candidateID)
	}
	return me, candidate, nil
}

// Like records that the session user likes candidateID. Matched is true
// when the like completed a new mutual pair.
func (s *SwipeService) Like(ctx context.Context, session, candidateID string) (SwipeResult, error) {
	var (
		result  SwipeResult
		changed bool
		me      models.UserProfile
	)
	_, err := s.store.Update(ctx, func(doc *models.Document) (*models.Document, error) {
		self, candidate, err := s.target(doc, session, candidateID)
		if err != nil {
			return nil, err
		}
		me = *self
		exclusive := s.flags.Enabled(featureflags.ExclusiveSwipes, me.ID)

		if doc.Likes.Has(me.ID, candidate.ID) && !(exclusive && doc.Passes.Has(me.ID, candidate.ID)) {
			return nil, nil
		}

		next, matched := matching.ApplyLike(doc, me.ID, candidate.ID)
		if exclusive {
			next.Passes.Remove(me.ID, candidate.ID)
		}
		changed = true
		result.Matched = matched
		if matched {
			partner := *candidate
			result.Partner = &partner
		}
		return next, nil
	})
	if err != nil {
		return SwipeResult{}, err
	}

	if changed {
		observability.SwipesTotal.WithLabelValues("like").Inc()
	}
	if result.Matched {
		observability.MatchesTotal.Inc()
		observability.GlobalLogger.InfoContext(ctx, "match created",
			slog.String("user_id", me.ID),
			slog.String("partner_id", result.Partner.ID),
		)
	}
	return result, nil
}

// Pass records that the session user skipped candidateID.
func (s *SwipeService) Pass(ctx context.Context, session, candidateID string) error {
	changed := false
	_, err := s.store.Update(ctx, func(doc *models.Document) (*models.Document, error) {
		me, candidate, err := s.target(doc, session, candidateID)
		if err != nil {
			return nil, err
		}
		if doc.Passes.Has(me.ID, candidate.ID) {
			return nil, nil
		}
		if s.flags.Enabled(featureflags.ExclusiveSwipes, me.ID) && doc.Likes.Has(me.ID, candidate.ID) {
			return nil, nil
		}
		changed = true
		return matching.ApplyPass(doc, me.ID, candidate.ID), nil
	})
	if err != nil {
		return err
	}
	if changed {
		observability.SwipesTotal.WithLabelValues("pass").Inc()
	}
	return nil
}
