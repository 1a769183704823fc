package service

import (
	"context"
	"net/url"
	"slices"
	"strings"

	"clique/internal/models"
	"clique/internal/validation"

	"github.com/google/uuid"
)

// DefaultAvatarURL is used when a profile is created without images.
const DefaultAvatarURL = "https://api.dicebear.com/7.x/thumbs/svg?seed="

// UserService provides signup and session lookup.
type UserService struct {
	store DocumentStore
	newID func() string
}

// NewUserService returns a new UserService.
func NewUserService(store DocumentStore) *UserService {
	return &UserService{
		store: store,
		newID: func() string { return "user_" + uuid.NewString() },
	}
}

// Signup creates a profile. The email is the identity key and must not be
// taken, ignoring case.
func (s *UserService) Signup(ctx context.Context, in validation.ProfileInput) (*models.UserProfile, error) {
	if err := validation.ValidateProfile(in); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	name := strings.TrimSpace(in.Name)
	profile := models.UserProfile{
		ID:        s.newID(),
		Name:      name,
		Age:       in.Age,
		Gender:    models.Gender(in.Gender),
		Bio:       strings.TrimSpace(in.Bio),
		Email:     models.NormalizeEmail(in.Email),
		ImageURLs: slices.Clone(in.ImageURLs),
		Interests: slices.Clone(in.Interests),
		Location:  in.Location,
	}
	if len(profile.ImageURLs) == 0 {
		profile.ImageURLs = []string{DefaultAvatarURL + url.QueryEscape(name)}
	}
	if profile.Interests == nil {
		profile.Interests = []string{}
	}

	_, err := s.store.Update(ctx, func(doc *models.Document) (*models.Document, error) {
		if _, taken := doc.UserByEmail(profile.Email); taken {
			return nil, models.NewConflictError("An account with this email already exists")
		}
		next := doc.Clone()
		next.Users = append(next.Users, profile)
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Login returns the profile registered under email.
func (s *UserService) Login(ctx context.Context, email string) (*models.UserProfile, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	u, ok := doc.UserByEmail(models.NormalizeEmail(email))
	if !ok {
		return nil, models.NewNotFoundError("User", models.NormalizeEmail(email))
	}
	return u, nil
}

// Me returns the profile behind session, or nil when there is none.
func (s *UserService) Me(ctx context.Context, session string) (*models.UserProfile, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	u, ok := CurrentUser(doc, session)
	if !ok {
		return nil, nil
	}
	return u, nil
}

// GetProfile returns a profile by id.
func (s *UserService) GetProfile(ctx context.Context, id string) (*models.UserProfile, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	u, ok := doc.UserByID(id)
	if !ok {
		return nil, models.NewNotFoundError("User", id)
	}
	return u, nil
}
