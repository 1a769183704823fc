package service

import (
	"context"

	"clique/internal/matching"
	"clique/internal/observability"
)

// DiscoveryService serves the ranked candidate feed.
type DiscoveryService struct {
	store DocumentStore
}

// NewDiscoveryService returns a new DiscoveryService.
func NewDiscoveryService(store DocumentStore) *DiscoveryService {
	return &DiscoveryService{store: store}
}

// Feed returns up to limit ranked candidates for the session user. It is
// empty without a current user.
func (s *DiscoveryService) Feed(ctx context.Context, session string, excluded matching.Exclusions, limit int) ([]matching.Candidate, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	me, ok := CurrentUser(doc, session)
	if !ok {
		return []matching.Candidate{}, nil
	}

	defer observability.TrackRanking()()
	return matching.Collect(matching.Rank(*me, doc.Users, doc.Likes, doc.Passes, excluded), limit), nil
}

// Next returns the best candidate, or nil when the feed is exhausted.
func (s *DiscoveryService) Next(ctx context.Context, session string, excluded matching.Exclusions) (*matching.Candidate, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	me, ok := CurrentUser(doc, session)
	if !ok {
		return nil, nil
	}

	defer observability.TrackRanking()()
	top, ok := matching.Top(matching.Rank(*me, doc.Users, doc.Likes, doc.Passes, excluded))
	if !ok {
		return nil, nil
	}
	return &top, nil
}
