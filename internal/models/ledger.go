package models

import (
	"encoding/json"
	"slices"
)

// Ledger maps an actor id to the ordered set of target ids it acted on.
// It backs both the like ledger and the pass ledger.
type Ledger map[string][]string

// Has reports whether actor has target in its set.
func (l Ledger) Has(actor, target string) bool {
	return slices.Contains(l[actor], target)
}

// Add appends target to actor's set. It reports false when target was
// already present.
func (l Ledger) Add(actor, target string) bool {
	if l.Has(actor, target) {
		return false
	}
	l[actor] = append(l[actor], target)
	return true
}

// Remove drops target from actor's set.
func (l Ledger) Remove(actor, target string) bool {
	set := l[actor]
	idx := slices.Index(set, target)
	if idx < 0 {
		return false
	}
	l[actor] = slices.Delete(slices.Clone(set), idx, idx+1)
	return true
}

// Targets returns actor's set. The returned slice must not be modified.
func (l Ledger) Targets(actor string) []string {
	return l[actor]
}

// CountIncoming returns how many actors have target in their set.
func (l Ledger) CountIncoming(target string) int {
	n := 0
	for _, set := range l {
		if slices.Contains(set, target) {
			n++
		}
	}
	return n
}

// Clone returns a deep copy.
func (l Ledger) Clone() Ledger {
	out := make(Ledger, len(l))
	for k, v := range l {
		out[k] = slices.Clone(v)
	}
	return out
}

// MatchPair is an unordered pair of user ids, stored in creation order.
type MatchPair [2]string

// NewMatchPair builds a pair with a first.
func NewMatchPair(a, b string) MatchPair {
	return MatchPair{a, b}
}

// Has reports whether id is one side of the pair.
func (p MatchPair) Has(id string) bool {
	return p[0] == id || p[1] == id
}

// Other returns the side that is not id.
func (p MatchPair) Other(id string) string {
	if p[0] == id {
		return p[1]
	}
	return p[0]
}

// Same reports whether both pairs join the same two users, in any order.
func (p MatchPair) Same(other MatchPair) bool {
	return (p[0] == other[0] && p[1] == other[1]) || (p[0] == other[1] && p[1] == other[0])
}

// Valid reports whether the pair names two distinct users.
func (p MatchPair) Valid() bool {
	return p[0] != "" && p[1] != "" && p[0] != p[1]
}

// UnmarshalJSON accepts anything. Entries that are not two strings decode
// to the zero pair so that migration can drop them.
func (p *MatchPair) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || len(raw) != 2 {
		*p = MatchPair{}
		return nil
	}
	var a, b string
	if json.Unmarshal(raw[0], &a) != nil || json.Unmarshal(raw[1], &b) != nil {
		*p = MatchPair{}
		return nil
	}
	*p = MatchPair{a, b}
	return nil
}

// MatchSet is the ordered list of recorded matches.
type MatchSet []MatchPair

// Contains reports whether a and b are matched, in either order.
func (m MatchSet) Contains(a, b string) bool {
	want := MatchPair{a, b}
	return slices.ContainsFunc(m, want.Same)
}

// PartnersOf returns the ids matched with id, in match order.
func (m MatchSet) PartnersOf(id string) []string {
	var out []string
	for _, p := range m {
		if p.Has(id) {
			out = append(out, p.Other(id))
		}
	}
	return out
}

// Selections maps a conversation id to each participant's chosen slot.
type Selections map[string]map[string]TimeSlot

// Clone returns a deep copy.
func (s Selections) Clone() Selections {
	out := make(Selections, len(s))
	for chat, picks := range s {
		inner := make(map[string]TimeSlot, len(picks))
		for user, slot := range picks {
			inner[user] = slot
		}
		out[chat] = inner
	}
	return out
}
