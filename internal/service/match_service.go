package service

import (
	"context"

	"clique/internal/matching"
	"clique/internal/models"
	"clique/internal/scheduling"
)

// Appointment is a confirmed meetup joined with the partner's profile.
type Appointment struct {
	Partner models.UserProfile `json:"partner"`
	Slot    models.TimeSlot    `json:"slot"`
}

// MatchService exposes the derived views over the match set.
type MatchService struct {
	store DocumentStore
}

// NewMatchService returns a new MatchService.
func NewMatchService(store DocumentStore) *MatchService {
	return &MatchService{store: store}
}

// Matches returns the session user's partners in match order.
func (s *MatchService) Matches(ctx context.Context, session string) ([]models.UserProfile, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	me, ok := CurrentUser(doc, session)
	if !ok {
		return []models.UserProfile{}, nil
	}
	return profiles(doc, doc.Matches.PartnersOf(me.ID)), nil
}

// PendingLikes counts users who like the session user and are not liked
// back yet.
func (s *MatchService) PendingLikes(ctx context.Context, session string) (int, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return 0, err
	}
	me, ok := CurrentUser(doc, session)
	if !ok {
		return 0, nil
	}
	return len(matching.PendingLikes(doc, me.ID)), nil
}

// Appointments lists confirmed meetups across the session user's matches.
func (s *MatchService) Appointments(ctx context.Context, session string) ([]Appointment, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := []Appointment{}
	me, ok := CurrentUser(doc, session)
	if !ok {
		return out, nil
	}
	for _, a := range scheduling.Appointments(doc, me.ID) {
		partner, ok := doc.UserByID(a.PartnerID)
		if !ok {
			continue
		}
		out = append(out, Appointment{Partner: *partner, Slot: a.Slot})
	}
	return out, nil
}
