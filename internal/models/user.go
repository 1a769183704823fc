package models

import "strings"

// Gender is the self-declared gender on a profile.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Valid reports whether g is one of the known genders.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// UserProfile is a member of the community. Profiles are created once at
// signup and are not edited afterwards.
type UserProfile struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Age       int      `json:"age"`
	Gender    Gender   `json:"gender"`
	Bio       string   `json:"bio"`
	Email     string   `json:"email"`
	ImageURLs []string `json:"imageUrls"`
	Interests []string `json:"interests"`
	Location  string   `json:"location,omitempty"`
}

// Avatar returns the first image URL, or "" when the profile has none.
func (u UserProfile) Avatar() string {
	if len(u.ImageURLs) == 0 {
		return ""
	}
	return u.ImageURLs[0]
}

// NormalizeEmail trims and lower-cases an email used as identity key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
