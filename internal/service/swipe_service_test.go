package service

import (
	"context"
	"testing"

	"clique/internal/featureflags"
	"clique/internal/matching"
	"clique/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func swipeDoc() *models.Document {
	doc := models.NewDocument()
	doc.Users = []models.UserProfile{
		person("an", models.GenderMale, 25, "Hà Nội", "coffee", "music"),
		person("binh", models.GenderFemale, 27, "Hà Nội", "coffee", "gaming"),
		person("chi", models.GenderFemale, 26, "Hà Nội", "coffee", "music"),
	}
	return doc
}

func TestSwipeServiceMutualLike(t *testing.T) {
	s := seededStore(t, swipeDoc())
	svc := NewSwipeService(s, featureflags.NewManager(""))
	ctx := context.Background()

	res, err := svc.Like(ctx, session("an"), "binh")
	require.NoError(t, err)
	assert.False(t, res.Matched)
	assert.Nil(t, res.Partner)

	res, err = svc.Like(ctx, session("binh"), "an")
	require.NoError(t, err)
	assert.True(t, res.Matched)
	require.NotNil(t, res.Partner)
	assert.Equal(t, "an", res.Partner.ID)

	res, err = svc.Like(ctx, session("binh"), "an")
	require.NoError(t, err)
	assert.False(t, res.Matched)

	doc, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, doc.Matches, 1)
	assert.Equal(t, []string{"an"}, doc.Likes["binh"])
}

func TestSwipeServiceErrors(t *testing.T) {
	svc := NewSwipeService(seededStore(t, swipeDoc()), nil)
	ctx := context.Background()

	_, err := svc.Like(ctx, "", "binh")
	requireCode(t, err, models.CodeNoSession)

	_, err = svc.Like(ctx, session("an"), "an")
	requireCode(t, err, models.CodeValidation)

	_, err = svc.Like(ctx, session("an"), "nobody")
	requireCode(t, err, models.CodeNotFound)

	requireCode(t, svc.Pass(ctx, "ghost@example.com", "binh"), models.CodeNoSession)
}

func TestSwipeServicePassHidesCandidate(t *testing.T) {
	s := seededStore(t, swipeDoc())
	svc := NewSwipeService(s, featureflags.NewManager(""))
	discovery := NewDiscoveryService(s)
	ctx := context.Background()

	require.NoError(t, svc.Pass(ctx, session("an"), "chi"))
	require.NoError(t, svc.Pass(ctx, session("an"), "chi"))

	feed, err := discovery.Feed(ctx, session("an"), nil, 0)
	require.NoError(t, err)
	ids := make([]string, 0, len(feed))
	for _, c := range feed {
		ids = append(ids, c.Profile.ID)
	}
	assert.Equal(t, []string{"binh"}, ids)

	doc, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"chi"}, doc.Passes["an"])
}

func TestSwipeServiceMixedStateByDefault(t *testing.T) {
	s := seededStore(t, swipeDoc())
	svc := NewSwipeService(s, featureflags.NewManager(""))
	ctx := context.Background()

	require.NoError(t, svc.Pass(ctx, session("an"), "binh"))
	_, err := svc.Like(ctx, session("an"), "binh")
	require.NoError(t, err)

	doc, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, doc.Likes.Has("an", "binh"))
	assert.True(t, doc.Passes.Has("an", "binh"))
}

func TestSwipeServiceExclusiveSwipes(t *testing.T) {
	s := seededStore(t, swipeDoc())
	svc := NewSwipeService(s, featureflags.NewManager(featureflags.ExclusiveSwipes+"=on"))
	ctx := context.Background()

	require.NoError(t, svc.Pass(ctx, session("an"), "binh"))
	_, err := svc.Like(ctx, session("an"), "binh")
	require.NoError(t, err)
	require.NoError(t, svc.Pass(ctx, session("an"), "binh"))

	doc, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, doc.Likes.Has("an", "binh"))
	assert.False(t, doc.Passes.Has("an", "binh"))
}

func TestDiscoveryServiceScenario(t *testing.T) {
	doc := swipeDoc()
	doc.Users[2].Interests = []string{"coffee", "music", "travel"}
	doc.Users[0].Interests = []string{"coffee", "music", "travel"}
	svc := NewDiscoveryService(seededStore(t, doc))
	ctx := context.Background()

	next, err := svc.Next(ctx, session("an"), nil)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "chi", next.Profile.ID)
	assert.Equal(t, 70, next.Score)

	next, err = svc.Next(ctx, session("an"), matching.NewExclusions("chi"))
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "binh", next.Profile.ID)
	assert.Equal(t, 50, next.Score)

	next, err = svc.Next(ctx, session("an"), matching.NewExclusions("chi", "binh"))
	require.NoError(t, err)
	assert.Nil(t, next)

	feed, err := svc.Feed(ctx, "", nil, 10)
	require.NoError(t, err)
	assert.Empty(t, feed)

	feed, err = svc.Feed(ctx, session("an"), nil, 1)
	require.NoError(t, err)
	assert.Len(t, feed, 1)
}
