package seed

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"clique/internal/matching"
	"clique/internal/models"
	"clique/internal/scheduling"
	"clique/internal/validation"

	"gopkg.in/yaml.v3"
)

// Fixture is the YAML layout of a hand-written demo dataset. Profiles are
// keyed by their id; likes and availability refer to those ids.
type Fixture struct {
	Users []struct {
		ID        string   `yaml:"id"`
		Name      string   `yaml:"name"`
		Age       int      `yaml:"age"`
		Gender    string   `yaml:"gender"`
		Bio       string   `yaml:"bio"`
		Email     string   `yaml:"email"`
		Location  string   `yaml:"location"`
		Interests []string `yaml:"interests"`
		Images    []string `yaml:"images"`
	} `yaml:"users"`
	Likes        map[string][]string `yaml:"likes"`
	Passes       map[string][]string `yaml:"passes"`
	Availability map[string][]struct {
		Date  string `yaml:"date"`
		Start string `yaml:"start"`
		End   string `yaml:"end"`
	} `yaml:"availability"`
}

// LoadFixtures decodes a fixture and builds the document it describes.
// Likes go through the swipe transition so mutual likes become matches.
func LoadFixtures(r io.Reader) (*models.Document, error) {
	var fx Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}

	doc := models.NewDocument()
	for _, u := range fx.Users {
		in := validation.ProfileInput{
			Name:      u.Name,
			Age:       u.Age,
			Gender:    u.Gender,
			Bio:       u.Bio,
			Email:     u.Email,
			Location:  u.Location,
			Interests: u.Interests,
			ImageURLs: u.Images,
		}
		if err := validation.ValidateProfile(in); err != nil {
			return nil, fmt.Errorf("fixture user %q: %w", u.ID, err)
		}
		if u.ID == "" {
			return nil, fmt.Errorf("fixture user %q has no id", u.Email)
		}
		if _, dup := doc.UserByID(u.ID); dup {
			return nil, fmt.Errorf("fixture user id %q is repeated", u.ID)
		}
		doc.Users = append(doc.Users, models.UserProfile{
			ID:        u.ID,
			Name:      u.Name,
			Age:       u.Age,
			Gender:    models.Gender(u.Gender),
			Bio:       u.Bio,
			Email:     models.NormalizeEmail(u.Email),
			ImageURLs: append([]string{}, u.Images...),
			Interests: append([]string{}, u.Interests...),
			Location:  u.Location,
		})
	}

	for _, from := range slices.Sorted(maps.Keys(fx.Likes)) {
		for _, to := range fx.Likes[from] {
			if err := knownPair(doc, from, to); err != nil {
				return nil, fmt.Errorf("fixture like: %w", err)
			}
			doc, _ = matching.ApplyLike(doc, from, to)
		}
	}
	for _, from := range slices.Sorted(maps.Keys(fx.Passes)) {
		for _, to := range fx.Passes[from] {
			if err := knownPair(doc, from, to); err != nil {
				return nil, fmt.Errorf("fixture pass: %w", err)
			}
			doc = matching.ApplyPass(doc, from, to)
		}
	}

	for _, id := range slices.Sorted(maps.Keys(fx.Availability)) {
		if _, ok := doc.UserByID(id); !ok {
			return nil, fmt.Errorf("fixture availability: unknown user %q", id)
		}
		slots := make([]models.TimeSlot, 0, len(fx.Availability[id]))
		for _, s := range fx.Availability[id] {
			if err := validation.ValidateSlot(models.TimeSlot{Date: s.Date, StartTime: s.Start, EndTime: s.End}); err != nil {
				return nil, fmt.Errorf("fixture availability for %q: %w", id, err)
			}
			label, _ := scheduling.LabelFor(s.Date)
			slots = append(slots, models.TimeSlot{Date: s.Date, Label: label, StartTime: s.Start, EndTime: s.End})
		}
		doc.SetSlots(id, slots)
	}
	return doc, nil
}

// LoadFixturesFile reads LoadFixtures input from path.
func LoadFixturesFile(path string) (*models.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixtures: %w", err)
	}
	defer f.Close()
	return LoadFixtures(f)
}

// ApplyFixtures saves the fixture document when the store holds no users
// yet. It reports whether anything was written.
func ApplyFixtures(ctx context.Context, store DocumentStore, fixture *models.Document) (bool, error) {
	applied := false
	_, err := store.Update(ctx, func(current *models.Document) (*models.Document, error) {
		if len(current.Users) > 0 {
			return nil, nil
		}
		applied = true
		return fixture.Clone(), nil
	})
	return applied, err
}

func knownPair(doc *models.Document, from, to string) error {
	if _, ok := doc.UserByID(from); !ok {
		return fmt.Errorf("unknown user %q", from)
	}
	if _, ok := doc.UserByID(to); !ok {
		return fmt.Errorf("unknown user %q", to)
	}
	return nil
}
