package matching

import (
	"cmp"
	"iter"
	"slices"

	"clique/internal/models"
)

// Candidate is a ranked discovery entry.
type Candidate struct {
	Profile   models.UserProfile `json:"profile"`
	Score     int                `json:"score"`
	Breakdown Breakdown          `json:"breakdown"`
}

// Exclusions is a set of user ids hidden for the current browsing session
// only. It is never persisted.
type Exclusions map[string]struct{}

// NewExclusions builds a set from ids, skipping blanks.
func NewExclusions(ids ...string) Exclusions {
	out := make(Exclusions, len(ids))
	for _, id := range ids {
		if id != "" {
			out[id] = struct{}{}
		}
	}
	return out
}

// Has reports whether id is excluded. A nil set excludes nothing.
func (e Exclusions) Has(id string) bool {
	_, ok := e[id]
	return ok
}

// Rank yields viewer's discovery candidates by descending score. Users the
// viewer liked, passed or excluded are skipped, as are incompatible users.
// Ties keep the order of users. The sequence recomputes on every range.
func Rank(viewer models.UserProfile, users []models.UserProfile, likes, passes models.Ledger, excluded Exclusions) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		for _, c := range rank(viewer, users, likes, passes, excluded) {
			if !yield(c) {
				return
			}
		}
	}
}

func rank(viewer models.UserProfile, users []models.UserProfile, likes, passes models.Ledger, excluded Exclusions) []Candidate {
	popularity := popularityIndex(likes)
	viewerPop := popularity[viewer.ID]

	out := make([]Candidate, 0, len(users))
	for _, u := range users {
		if u.ID == viewer.ID || likes.Has(viewer.ID, u.ID) || passes.Has(viewer.ID, u.ID) || excluded.Has(u.ID) {
			continue
		}
		b, ok := explain(viewer, u, likes, viewerPop, popularity[u.ID])
		if !ok {
			continue
		}
		out = append(out, Candidate{Profile: u, Score: b.Total(), Breakdown: b})
	}
	slices.SortStableFunc(out, func(a, b Candidate) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return out
}

// Top returns the first candidate of seq.
func Top(seq iter.Seq[Candidate]) (Candidate, bool) {
	for c := range seq {
		return c, true
	}
	return Candidate{}, false
}

// Collect drains seq into a slice. A limit of zero or less means no limit.
func Collect(seq iter.Seq[Candidate], limit int) []Candidate {
	out := []Candidate{}
	for c := range seq {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, c)
	}
	return out
}
