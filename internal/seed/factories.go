// Package seed provides helpers to create demo data for the document store.
// These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"strings"
	"time"

	"clique/internal/models"
	"clique/internal/scheduling"
	"clique/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
)

var (
	familyNames = []string{"Nguyễn", "Trần", "Lê", "Phạm", "Hoàng", "Phan", "Vũ", "Đặng", "Bùi", "Đỗ", "Hồ", "Ngô"}

	maleNames = []string{
		"Minh", "Huy", "Khoa", "Nam", "Tuấn", "Phúc", "Long", "Quân", "Đức", "Bảo",
		"Hải", "Sơn", "Thắng", "Việt", "Dũng", "Khánh",
	}

	femaleNames = []string{
		"Anh", "Linh", "Trang", "Hương", "Ngọc", "Thảo", "Mai", "Vy", "Hà", "Chi",
		"Nhung", "Quỳnh", "Yến", "Giang", "My", "Thư",
	}

	bioTemplates = []string{
		"Mê %s, cuối tuần hay đi %s cùng bạn bè.",
		"Một người thích %s và đang tìm bạn cùng %s.",
		"Dân văn phòng, rảnh là %s hoặc %s.",
		"Sống chậm, thích %s, thỉnh thoảng %s.",
	}

	// popularCities are weighted into the generator so locations overlap.
	popularCities = []string{"Hà Nội", "TP. Hồ Chí Minh", "Đà Nẵng", "Hải Phòng", "Cần Thơ"}
)

// Factory builds demo profiles and availability.
type Factory struct {
	faker *gofakeit.Faker
	now   func() time.Time
	seq   int
}

// NewFactory returns a Factory. A zero seed draws from the clock.
func NewFactory(seed int64) *Factory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{faker: gofakeit.New(seed), now: time.Now}
}

// BuildProfile returns a valid profile. Overrides run after generation.
func (f *Factory) BuildProfile(overrides ...func(*models.UserProfile)) models.UserProfile {
	f.seq++

	gender := models.GenderFemale
	given := femaleNames
	if f.faker.Bool() {
		gender = models.GenderMale
		given = maleNames
	}
	name := f.faker.RandomString(familyNames) + " " + f.faker.RandomString(given)

	location := f.faker.RandomString(popularCities)
	if f.faker.Number(1, 10) > 8 {
		location = f.faker.RandomString(models.Provinces)
	}

	interests := f.pickHobbies(f.faker.Number(2, validation.MaxInterests))

	profile := models.UserProfile{
		ID:        "user_" + f.faker.UUID(),
		Name:      name,
		Age:       f.faker.Number(validation.MinAge, 40),
		Gender:    gender,
		Bio:       f.bio(interests),
		Email:     fmt.Sprintf("%s.%d@clique.local", strings.ToLower(f.faker.Username()), f.seq),
		ImageURLs: []string{fmt.Sprintf("https://picsum.photos/seed/%s/600/800", f.faker.UUID())},
		Interests: interests,
		Location:  location,
	}

	for _, override := range overrides {
		override(&profile)
	}
	return profile
}

// BuildAvailability returns up to n distinct slots inside the publishing
// window starting tomorrow.
func (f *Factory) BuildAvailability(n int) []models.TimeSlot {
	n = min(n, validation.MaxSlots)
	today := f.now()
	out := make([]models.TimeSlot, 0, n)
	for attempts := 0; len(out) < n && attempts < n*10; attempts++ {
		day := today.AddDate(0, 0, f.faker.Number(1, 7))
		start := f.faker.Number(7, 20)
		slot := models.TimeSlot{
			Date:      day.Format(scheduling.DateLayout),
			Label:     scheduling.Label(day),
			StartTime: fmt.Sprintf("%02d:00", start),
			EndTime:   fmt.Sprintf("%02d:00", start+2),
		}
		if scheduling.ContainsSlot(out, slot) {
			continue
		}
		out = append(out, slot)
	}
	return out
}

// Chance reports true with probability p.
func (f *Factory) Chance(p float64) bool {
	return f.faker.Float64Range(0, 1) < p
}

func (f *Factory) pickHobbies(n int) []string {
	ids := make([]string, len(models.Hobbies))
	for i, h := range models.Hobbies {
		ids[i] = h.ID
	}
	f.faker.ShuffleStrings(ids)
	return ids[:n]
}

func (f *Factory) bio(interests []string) string {
	labels := make([]any, 0, 2)
	for _, id := range interests[:2] {
		for _, h := range models.Hobbies {
			if h.ID == id {
				labels = append(labels, strings.ToLower(h.Label))
			}
		}
	}
	return fmt.Sprintf(f.faker.RandomString(bioTemplates), labels...)
}
