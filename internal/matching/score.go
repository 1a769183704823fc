// Package matching holds the compatibility scorer, the discovery ranking
// and the swipe transitions. Everything here is pure.
package matching

import (
	"strings"

	"clique/internal/models"
)

// Point values of each compatibility signal.
const (
	PopularityPoints     = 10
	PopularityTolerance  = 4
	InterestPoints       = 10
	InterestCap          = 40
	LocationPoints       = 15
	AgePoints            = 15
	AgeTolerance         = 4
	ReciprocalLikePoints = 15

	MaxScore = PopularityPoints + InterestCap + LocationPoints + AgePoints + ReciprocalLikePoints
)

// Breakdown is the per-signal contribution to a compatibility score.
type Breakdown struct {
	Popularity     int `json:"popularity"`
	SharedInterest int `json:"sharedInterest"`
	Location       int `json:"location"`
	Age            int `json:"age"`
	LikesYou       int `json:"likesYou"`
}

// Total sums the contributions.
func (b Breakdown) Total() int {
	return b.Popularity + b.SharedInterest + b.Location + b.Age + b.LikesYou
}

// Popularity counts the distinct likers whose set contains userID.
func Popularity(userID string, likes models.Ledger) int {
	return popularityIndex(likes)[userID]
}

// popularityIndex counts distinct likers per target. A target repeated in
// one liker's set counts once.
func popularityIndex(likes models.Ledger) map[string]int {
	out := make(map[string]int)
	for _, set := range likes {
		seen := make(map[string]struct{}, len(set))
		for _, id := range set {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out[id]++
		}
	}
	return out
}

// Score returns the compatibility of candidate for viewer. ok is false when
// the pair is incompatible.
func Score(viewer, candidate models.UserProfile, likes models.Ledger) (int, bool) {
	b, ok := Explain(viewer, candidate, likes)
	if !ok {
		return 0, false
	}
	return b.Total(), true
}

// Explain returns the contributions behind Score.
func Explain(viewer, candidate models.UserProfile, likes models.Ledger) (Breakdown, bool) {
	popularity := popularityIndex(likes)
	return explain(viewer, candidate, likes, popularity[viewer.ID], popularity[candidate.ID])
}

func explain(viewer, candidate models.UserProfile, likes models.Ledger, viewerPop, candidatePop int) (Breakdown, bool) {
	if viewer.Gender == candidate.Gender {
		return Breakdown{}, false
	}

	var b Breakdown
	if abs(viewerPop-candidatePop) <= PopularityTolerance {
		b.Popularity = PopularityPoints
	}
	b.SharedInterest = min(sharedInterests(viewer.Interests, candidate.Interests)*InterestPoints, InterestCap)
	if viewer.Location != "" && candidate.Location != "" && strings.EqualFold(viewer.Location, candidate.Location) {
		b.Location = LocationPoints
	}
	if abs(viewer.Age-candidate.Age) <= AgeTolerance {
		b.Age = AgePoints
	}
	if likes.Has(candidate.ID, viewer.ID) {
		b.LikesYou = ReciprocalLikePoints
	}
	return b, true
}

func sharedInterests(a, b []string) int {
	other := make(map[string]struct{}, len(b))
	for _, id := range b {
		other[id] = struct{}{}
	}
	seen := make(map[string]struct{}, len(a))
	n := 0
	for _, id := range a {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := other[id]; ok {
			n++
		}
	}
	return n
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
