// Package service implements the use cases behind the HTTP API. Every
// operation reads the whole document, computes the next one and writes it
// back through the store.
package service

import (
	"context"

	"clique/internal/models"
)

// DocumentStore is the state container the services work against.
type DocumentStore interface {
	Load(ctx context.Context) (*models.Document, error)
	Update(ctx context.Context, fn func(*models.Document) (*models.Document, error)) (*models.Document, error)
}

// CurrentUser resolves the session email to a profile.
func CurrentUser(doc *models.Document, session string) (*models.UserProfile, bool) {
	return doc.UserByEmail(session)
}

// viewer resolves the session for a mutation.
func viewer(doc *models.Document, session string) (*models.UserProfile, error) {
	u, ok := CurrentUser(doc, session)
	if !ok {
		return nil, models.NewNoSessionError()
	}
	return u, nil
}

// matchedPartner checks that partnerID exists and is matched with viewerID.
func matchedPartner(doc *models.Document, viewerID, partnerID string) (*models.UserProfile, error) {
	partner, ok := doc.UserByID(partnerID)
	if !ok {
		return nil, models.NewNotFoundError("User", partnerID)
	}
	if !doc.Matches.Contains(viewerID, partnerID) {
		return nil, models.NewNotMatchedError(partnerID)
	}
	return partner, nil
}

// profiles resolves ids to profiles, skipping unknown ids.
func profiles(doc *models.Document, ids []string) []models.UserProfile {
	out := make([]models.UserProfile, 0, len(ids))
	for _, id := range ids {
		if u, ok := doc.UserByID(id); ok {
			out = append(out, *u)
		}
	}
	return out
}
