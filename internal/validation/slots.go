package validation

import (
	"errors"
	"fmt"
	"time"

	"clique/internal/models"
	"clique/internal/scheduling"
)

// Slot limits.
const (
	MaxSlots       = 4
	HorizonDays    = 21
	EarliestTime   = "06:00"
	LatestTime     = "23:00"
	slotTimeLayout = "15:04"
)

// SlotPolicy validates availability edits against a clock.
type SlotPolicy struct {
	MaxSlots    int
	HorizonDays int
	Now         func() time.Time
}

// DefaultSlotPolicy returns the policy used by the API.
func DefaultSlotPolicy() SlotPolicy {
	return SlotPolicy{MaxSlots: MaxSlots, HorizonDays: HorizonDays, Now: time.Now}
}

// Validate checks a full availability list and returns it with empty
// labels filled in.
func (p SlotPolicy) Validate(slots []models.TimeSlot) ([]models.TimeSlot, error) {
	if len(slots) > p.MaxSlots {
		return nil, fmt.Errorf("at most %d slots can be published", p.MaxSlots)
	}

	now := p.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	last := today.AddDate(0, 0, p.HorizonDays)

	out := make([]models.TimeSlot, 0, len(slots))
	for _, s := range slots {
		date, err := time.Parse(scheduling.DateLayout, s.Date)
		if err != nil {
			return nil, fmt.Errorf("slot date %q must be YYYY-MM-DD", s.Date)
		}
		if date.Before(today) || date.After(last) {
			return nil, fmt.Errorf("slot date %s must be within the next %d days", s.Date, p.HorizonDays)
		}
		if err := validateWindow(s.StartTime, s.EndTime); err != nil {
			return nil, err
		}
		if scheduling.ContainsSlot(out, s) {
			return nil, fmt.Errorf("slot %s %s-%s is listed twice", s.Date, s.StartTime, s.EndTime)
		}
		if s.Label == "" {
			s.Label = scheduling.Label(date)
		}
		out = append(out, s)
	}
	return out, nil
}

// ValidateSlot checks a single slot's shape without the calendar window.
func ValidateSlot(s models.TimeSlot) error {
	if _, err := time.Parse(scheduling.DateLayout, s.Date); err != nil {
		return fmt.Errorf("slot date %q must be YYYY-MM-DD", s.Date)
	}
	return validateWindow(s.StartTime, s.EndTime)
}

func validateWindow(start, end string) error {
	s, err := parseGridTime(start)
	if err != nil {
		return err
	}
	e, err := parseGridTime(end)
	if err != nil {
		return err
	}
	if !s.Before(e) {
		return errors.New("slot must end after it starts")
	}
	return nil
}

func parseGridTime(v string) (time.Time, error) {
	t, err := time.Parse(slotTimeLayout, v)
	if err != nil || t.Format(slotTimeLayout) != v {
		return time.Time{}, fmt.Errorf("time %q must be HH:mm", v)
	}
	if t.Minute() != 0 && t.Minute() != 30 {
		return time.Time{}, fmt.Errorf("time %s must be on the half hour", v)
	}
	if v < EarliestTime || v > LatestTime {
		return time.Time{}, fmt.Errorf("time %s must be between %s and %s", v, EarliestTime, LatestTime)
	}
	return t, nil
}
