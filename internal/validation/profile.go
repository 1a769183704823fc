// Package validation holds the input rules applied before data reaches
// the document.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"clique/internal/models"
)

// Profile limits.
const (
	MinNameLength = 2
	MinAge        = 18
	MaxAge        = 99
	MinBioLength  = 10
	MaxBioLength  = 300
	MaxInterests  = 4
	MaxImages     = 6
)

// ProfileInput is the signup form.
type ProfileInput struct {
	Name      string   `json:"name"`
	Age       int      `json:"age"`
	Gender    string   `json:"gender"`
	Bio       string   `json:"bio"`
	Email     string   `json:"email"`
	Location  string   `json:"location"`
	Interests []string `json:"interests"`
	ImageURLs []string `json:"imageUrls"`
}

// ValidateEmail checks the only rule the login form enforces.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return errors.New("a valid email address is required")
	}
	return nil
}

// ValidateProfile checks a signup form.
func ValidateProfile(in ProfileInput) error {
	if err := ValidateEmail(in.Email); err != nil {
		return err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return errors.New("name is required")
	}
	if utf8.RuneCountInString(name) < MinNameLength {
		return fmt.Errorf("name must be at least %d characters", MinNameLength)
	}

	if in.Age < MinAge || in.Age > MaxAge {
		return fmt.Errorf("age must be between %d and %d", MinAge, MaxAge)
	}

	if !models.Gender(in.Gender).Valid() {
		return errors.New("gender must be male, female or other")
	}

	bio := utf8.RuneCountInString(strings.TrimSpace(in.Bio))
	if bio < MinBioLength || bio > MaxBioLength {
		return fmt.Errorf("bio must be between %d and %d characters", MinBioLength, MaxBioLength)
	}

	if in.Location == "" {
		return errors.New("location is required")
	}
	if !models.IsProvince(in.Location) {
		return fmt.Errorf("unknown location %q", in.Location)
	}

	if len(in.Interests) > MaxInterests {
		return fmt.Errorf("at most %d interests can be selected", MaxInterests)
	}
	seen := make(map[string]struct{}, len(in.Interests))
	for _, id := range in.Interests {
		if !models.IsHobby(id) {
			return fmt.Errorf("unknown interest %q", id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("interest %q selected twice", id)
		}
		seen[id] = struct{}{}
	}

	if len(in.ImageURLs) > MaxImages {
		return fmt.Errorf("at most %d images can be attached", MaxImages)
	}
	for _, u := range in.ImageURLs {
		if strings.TrimSpace(u) == "" {
			return errors.New("image URLs cannot be empty")
		}
	}

	return nil
}
