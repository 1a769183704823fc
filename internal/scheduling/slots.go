// Package scheduling reconciles two users' availability into shared slots
// and derives confirmed appointments from per-conversation selections.
package scheduling

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"clique/internal/models"
)

// DateLayout is the layout of TimeSlot.Date.
const DateLayout = "2006-01-02"

var weekdays = [...]string{
	time.Sunday:    "Chủ nhật",
	time.Monday:    "Thứ Hai",
	time.Tuesday:   "Thứ Ba",
	time.Wednesday: "Thứ Tư",
	time.Thursday:  "Thứ Năm",
	time.Friday:    "Thứ Sáu",
	time.Saturday:  "Thứ Bảy",
}

// CommonSlots returns the slots of a that are structurally present in b,
// in a's order and without structural duplicates.
func CommonSlots(a, b []models.TimeSlot) []models.TimeSlot {
	inB := make(map[string]struct{}, len(b))
	for _, s := range b {
		inB[s.Key()] = struct{}{}
	}
	seen := make(map[string]struct{}, len(a))
	out := []models.TimeSlot{}
	for _, s := range a {
		k := s.Key()
		if _, ok := inB[k]; !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}

// ContainsSlot reports whether slot is structurally in slots.
func ContainsSlot(slots []models.TimeSlot, slot models.TimeSlot) bool {
	return slices.ContainsFunc(slots, slot.Equal)
}

// ConversationID is the order-independent key of the conversation between
// two users. Ids are ordered bytewise, which matches UTF-16 code unit order
// for the ASCII ids the service issues but may differ for imported
// non-ASCII ids.
func ConversationID(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "_" + b
}

// Label renders a date the way slots are displayed, e.g. "Thứ Hai, 24/2".
func Label(date time.Time) string {
	return fmt.Sprintf("%s, %d/%d", weekdays[date.Weekday()], date.Day(), int(date.Month()))
}

// LabelFor parses a YYYY-MM-DD date and renders its label.
func LabelFor(date string) (string, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return "", fmt.Errorf("parse slot date %q: %w", date, err)
	}
	return Label(d), nil
}
