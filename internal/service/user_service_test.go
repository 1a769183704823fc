package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"clique/internal/models"
	"clique/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signupInput(email string) validation.ProfileInput {
	return validation.ProfileInput{
		Name:      "  Minh Anh ",
		Age:       26,
		Gender:    "female",
		Bio:       "Mê phim và những buổi cà phê cuối tuần.",
		Email:     email,
		Location:  "Đà Nẵng",
		Interests: []string{"movies", "coffee"},
	}
}

func TestUserServiceSignupAndLogin(t *testing.T) {
	s := seededStore(t, models.NewDocument())
	svc := NewUserService(s)
	ctx := context.Background()

	u, err := svc.Signup(ctx, signupInput("  MinhAnh@Example.com "))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u.ID, "user_"))
	assert.Equal(t, "minhanh@example.com", u.Email)
	assert.Equal(t, "Minh Anh", u.Name)
	require.Len(t, u.ImageURLs, 1)
	assert.Equal(t, DefaultAvatarURL+"Minh+Anh", u.Avatar())

	got, err := svc.Login(ctx, "MINHANH@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	me, err := svc.Me(ctx, "minhanh@example.com")
	require.NoError(t, err)
	require.NotNil(t, me)
	assert.Equal(t, u.ID, me.ID)

	profile, err := svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Đà Nẵng", profile.Location)
}

func TestUserServiceSignupDuplicateEmail(t *testing.T) {
	s := seededStore(t, models.NewDocument())
	svc := NewUserService(s)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupInput("a@example.com"))
	require.NoError(t, err)
	_, err = svc.Signup(ctx, signupInput("A@EXAMPLE.COM"))
	requireCode(t, err, models.CodeConflict)

	doc, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, doc.Users, 1)
}

func TestUserServiceSignupValidation(t *testing.T) {
	svc := NewUserService(seededStore(t, models.NewDocument()))
	in := signupInput("a@example.com")
	in.Age = 16
	_, err := svc.Signup(context.Background(), in)
	requireCode(t, err, models.CodeValidation)
}

func TestUserServiceLoginErrors(t *testing.T) {
	svc := NewUserService(seededStore(t, models.NewDocument()))
	ctx := context.Background()

	_, err := svc.Login(ctx, "not-an-email")
	requireCode(t, err, models.CodeValidation)

	_, err = svc.Login(ctx, "ghost@example.com")
	requireCode(t, err, models.CodeNotFound)

	me, err := svc.Me(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, me)

	_, err = svc.GetProfile(ctx, "user_missing")
	requireCode(t, err, models.CodeNotFound)
}

func TestUserServicePropagatesStoreErrors(t *testing.T) {
	boom := models.NewInternalError(errors.New("redis down"))
	svc := NewUserService(failingStore(boom))

	_, err := svc.Signup(context.Background(), signupInput("a@example.com"))
	requireCode(t, err, models.CodeInternal)
	_, err = svc.Me(context.Background(), "a@example.com")
	requireCode(t, err, models.CodeInternal)
}
