package models

import (
	"slices"
	"strings"
)

// CurrentSchemaVersion is the document layout this binary writes.
const CurrentSchemaVersion = 2

// Document is the single persisted record holding all application state.
// JSON names follow the browser export so an existing export loads as-is.
type Document struct {
	SchemaVersion  int                      `json:"schemaVersion"`
	Users          []UserProfile            `json:"users"`
	Likes          Ledger                   `json:"likes"`
	Passes         Ledger                   `json:"passes"`
	Matches        MatchSet                 `json:"matches"`
	Availabilities []Availability           `json:"availabilities"`
	Messages       map[string][]ChatMessage `json:"messages"`
	Selections     Selections               `json:"selections"`
}

// NewDocument returns the empty default document.
func NewDocument() *Document {
	return &Document{
		SchemaVersion:  CurrentSchemaVersion,
		Users:          []UserProfile{},
		Likes:          Ledger{},
		Passes:         Ledger{},
		Matches:        MatchSet{},
		Availabilities: []Availability{},
		Messages:       map[string][]ChatMessage{},
		Selections:     Selections{},
	}
}

// Normalize fills missing collections with empty defaults.
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = []UserProfile{}
	}
	if d.Likes == nil {
		d.Likes = Ledger{}
	}
	if d.Passes == nil {
		d.Passes = Ledger{}
	}
	if d.Matches == nil {
		d.Matches = MatchSet{}
	}
	if d.Availabilities == nil {
		d.Availabilities = []Availability{}
	}
	if d.Messages == nil {
		d.Messages = map[string][]ChatMessage{}
	}
	if d.Selections == nil {
		d.Selections = Selections{}
	}
}

// Clone returns a deep copy so that transitions never mutate their input.
func (d *Document) Clone() *Document {
	out := &Document{
		SchemaVersion:  d.SchemaVersion,
		Users:          make([]UserProfile, len(d.Users)),
		Likes:          d.Likes.Clone(),
		Passes:         d.Passes.Clone(),
		Matches:        slices.Clone(d.Matches),
		Availabilities: make([]Availability, len(d.Availabilities)),
		Messages:       make(map[string][]ChatMessage, len(d.Messages)),
		Selections:     d.Selections.Clone(),
	}
	for i, u := range d.Users {
		u.ImageURLs = slices.Clone(u.ImageURLs)
		u.Interests = slices.Clone(u.Interests)
		out.Users[i] = u
	}
	for i, a := range d.Availabilities {
		out.Availabilities[i] = Availability{UserID: a.UserID, Slots: slices.Clone(a.Slots)}
	}
	for k, v := range d.Messages {
		out.Messages[k] = slices.Clone(v)
	}
	if out.Matches == nil {
		out.Matches = MatchSet{}
	}
	return out
}

// UserByID returns the profile with the given id.
func (d *Document) UserByID(id string) (*UserProfile, bool) {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return &d.Users[i], true
		}
	}
	return nil, false
}

// UserByEmail looks a profile up by email, ignoring case and surrounding
// whitespace.
func (d *Document) UserByEmail(email string) (*UserProfile, bool) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, false
	}
	for i := range d.Users {
		if strings.EqualFold(strings.TrimSpace(d.Users[i].Email), email) {
			return &d.Users[i], true
		}
	}
	return nil, false
}

// SlotsFor returns the availability published by userID.
func (d *Document) SlotsFor(userID string) []TimeSlot {
	for _, a := range d.Availabilities {
		if a.UserID == userID {
			return a.Slots
		}
	}
	return nil
}

// SetSlots replaces the availability of userID.
func (d *Document) SetSlots(userID string, slots []TimeSlot) {
	slots = slices.Clone(slots)
	if slots == nil {
		slots = []TimeSlot{}
	}
	for i := range d.Availabilities {
		if d.Availabilities[i].UserID == userID {
			d.Availabilities[i].Slots = slots
			return
		}
	}
	d.Availabilities = append(d.Availabilities, Availability{UserID: userID, Slots: slots})
}
