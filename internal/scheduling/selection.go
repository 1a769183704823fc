package scheduling

import (
	"slices"

	"clique/internal/models"
)

// SelectSlot toggles userID's pick in the conversation with partnerID.
// Picking the slot already held clears it, anything else replaces it. The
// input is not modified. confirmed is recomputed from the new selections.
func SelectSlot(selections models.Selections, userID, partnerID string, slot models.TimeSlot) (next models.Selections, confirmed bool) {
	next = selections.Clone()
	chat := ConversationID(userID, partnerID)
	picks := next[chat]
	if picks == nil {
		picks = map[string]models.TimeSlot{}
		next[chat] = picks
	}

	if current, ok := picks[userID]; ok && current.Equal(slot) {
		delete(picks, userID)
	} else {
		picks[userID] = slot
	}
	if len(picks) == 0 {
		delete(next, chat)
	}

	_, confirmed = Confirmed(next, userID, partnerID)
	return next, confirmed
}

// Selection returns userID's pick in the conversation with partnerID.
func Selection(selections models.Selections, userID, partnerID string) (models.TimeSlot, bool) {
	slot, ok := selections[ConversationID(userID, partnerID)][userID]
	return slot, ok
}

// Confirmed returns the appointment slot when both participants picked
// structurally equal slots.
func Confirmed(selections models.Selections, a, b string) (models.TimeSlot, bool) {
	picks := selections[ConversationID(a, b)]
	sa, okA := picks[a]
	sb, okB := picks[b]
	if !okA || !okB || !sa.Equal(sb) {
		return models.TimeSlot{}, false
	}
	return sa, true
}

// Appointment is a confirmed meetup with a matched partner.
type Appointment struct {
	PartnerID string          `json:"partnerId"`
	Slot      models.TimeSlot `json:"slot"`
}

// Appointments lists the confirmed appointments of viewerID across its
// matches, in match order.
func Appointments(doc *models.Document, viewerID string) []Appointment {
	out := []Appointment{}
	for _, partner := range doc.Matches.PartnersOf(viewerID) {
		if slot, ok := Confirmed(doc.Selections, viewerID, partner); ok {
			out = append(out, Appointment{PartnerID: partner, Slot: slot})
		}
	}
	return out
}

// PruneWithdrawn drops every selection in userID's conversations that is
// no longer a common slot of the two participants. It returns the number
// of selections removed and never modifies doc.
func PruneWithdrawn(doc *models.Document, userID string) (*models.Document, int) {
	next := doc.Clone()
	removed := 0
	for _, partner := range doc.Matches.PartnersOf(userID) {
		chat := ConversationID(userID, partner)
		picks := next.Selections[chat]
		if len(picks) == 0 {
			continue
		}
		common := CommonSlots(next.SlotsFor(userID), next.SlotsFor(partner))
		for _, who := range []string{userID, partner} {
			slot, ok := picks[who]
			if ok && !slices.ContainsFunc(common, slot.Equal) {
				delete(picks, who)
				removed++
			}
		}
		if len(picks) == 0 {
			delete(next.Selections, chat)
		}
	}
	return next, removed
}
