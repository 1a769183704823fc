package models

// TimeSlot is a half-hour aligned window on a calendar day. Date is
// YYYY-MM-DD and times are HH:mm. Label is display-only.
type TimeSlot struct {
	Date      string `json:"date"`
	Label     string `json:"label"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Equal compares date, start and end. The label is ignored.
func (s TimeSlot) Equal(other TimeSlot) bool {
	return s.Date == other.Date && s.StartTime == other.StartTime && s.EndTime == other.EndTime
}

// Key identifies the slot structurally.
func (s TimeSlot) Key() string {
	return s.Date + "|" + s.StartTime + "|" + s.EndTime
}

// IsZero reports whether the slot carries no date or times.
func (s TimeSlot) IsZero() bool {
	return s.Date == "" && s.StartTime == "" && s.EndTime == ""
}

// Availability is the full ordered slot list published by one user.
type Availability struct {
	UserID string     `json:"userId"`
	Slots  []TimeSlot `json:"slots"`
}
