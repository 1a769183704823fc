package service

import (
	"context"
	"errors"
	"testing"

	"clique/internal/matching"
	"clique/internal/models"
	"clique/internal/repository"
	"clique/internal/store"

	"github.com/stretchr/testify/require"
)

type documentStoreStub struct {
	loadFn   func(context.Context) (*models.Document, error)
	updateFn func(context.Context, func(*models.Document) (*models.Document, error)) (*models.Document, error)
}

func (s *documentStoreStub) Load(ctx context.Context) (*models.Document, error) {
	return s.loadFn(ctx)
}
func (s *documentStoreStub) Update(ctx context.Context, fn func(*models.Document) (*models.Document, error)) (*models.Document, error) {
	return s.updateFn(ctx, fn)
}

func failingStore(err error) *documentStoreStub {
	return &documentStoreStub{
		loadFn: func(context.Context) (*models.Document, error) { return nil, err },
		updateFn: func(context.Context, func(*models.Document) (*models.Document, error)) (*models.Document, error) {
			return nil, err
		},
	}
}

func person(id string, gender models.Gender, age int, location string, interests ...string) models.UserProfile {
	return models.UserProfile{
		ID:        id,
		Name:      id,
		Age:       age,
		Gender:    gender,
		Email:     id + "@example.com",
		Interests: interests,
		Location:  location,
	}
}

func session(id string) string { return id + "@example.com" }

// seededStore returns a memory-backed store holding doc.
func seededStore(t *testing.T, doc *models.Document) *store.Store {
	t.Helper()
	s := store.New(repository.NewMemoryDocumentRepository(), store.DefaultKey)
	require.NoError(t, s.Save(context.Background(), doc))
	return s
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != code {
		t.Fatalf("expected %s app error, got %#v", code, err)
	}
}

// matchedDoc returns swipeDoc with an matched to binh and chi.
func matchedDoc() *models.Document {
	doc := swipeDoc()
	doc, _ = matching.ApplyLike(doc, "an", "binh")
	doc, _ = matching.ApplyLike(doc, "binh", "an")
	doc, _ = matching.ApplyLike(doc, "an", "chi")
	doc, _ = matching.ApplyLike(doc, "chi", "an")
	return doc
}
