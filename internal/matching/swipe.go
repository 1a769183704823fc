package matching

import (
	"slices"

	"clique/internal/models"
)

// ApplyLike records that viewer liked candidate and returns the new
// document. matched is true only when this like completed a mutual pair
// that was not already recorded. doc is never modified.
func ApplyLike(doc *models.Document, viewerID, candidateID string) (next *models.Document, matched bool) {
	next = doc.Clone()
	if viewerID == "" || candidateID == "" || viewerID == candidateID {
		return next, false
	}

	reciprocal := doc.Likes.Has(candidateID, viewerID)
	next.Likes.Add(viewerID, candidateID)

	if reciprocal && !next.Matches.Contains(viewerID, candidateID) {
		next.Matches = append(next.Matches, models.NewMatchPair(viewerID, candidateID))
		matched = true
	}
	return next, matched
}

// ApplyPass records that viewer passed on candidate. No match logic runs.
func ApplyPass(doc *models.Document, viewerID, candidateID string) *models.Document {
	next := doc.Clone()
	if viewerID == "" || candidateID == "" || viewerID == candidateID {
		return next
	}
	next.Passes.Add(viewerID, candidateID)
	return next
}

// PendingLikes returns the ids of users who like viewer and whom viewer
// has not liked back, sorted by id.
func PendingLikes(doc *models.Document, viewerID string) []string {
	var out []string
	for liker, set := range doc.Likes {
		if liker == viewerID {
			continue
		}
		for _, id := range set {
			if id == viewerID && !doc.Likes.Has(viewerID, liker) {
				out = append(out, liker)
				break
			}
		}
	}
	slices.Sort(out)
	return out
}
