package service

import (
	"context"
	"log/slog"
	"slices"

	"clique/internal/featureflags"
	"clique/internal/models"
	"clique/internal/observability"
	"clique/internal/scheduling"
	"clique/internal/validation"
)

// ScheduleView is the meetup planner state of one conversation.
type ScheduleView struct {
	ConversationID string            `json:"conversationId"`
	CommonSlots    []models.TimeSlot `json:"commonSlots"`
	Mine           *models.TimeSlot  `json:"mine,omitempty"`
	Theirs         *models.TimeSlot  `json:"theirs,omitempty"`
	Confirmed      *models.TimeSlot  `json:"confirmed,omitempty"`
}

// AvailabilityService manages published slots and per-conversation picks.
type AvailabilityService struct {
	store  DocumentStore
	flags  *featureflags.Manager
	policy validation.SlotPolicy
}

// NewAvailabilityService returns a new AvailabilityService.
func NewAvailabilityService(store DocumentStore, flags *featureflags.Manager, policy validation.SlotPolicy) *AvailabilityService {
	return &AvailabilityService{store: store, flags: flags, policy: policy}
}

// SetAvailability replaces the session user's slots.
func (s *AvailabilityService) SetAvailability(ctx context.Context, session string, slots []models.TimeSlot) ([]models.TimeSlot, error) {
	slots, err := s.policy.Validate(slots)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	pruned := 0
	_, err = s.store.Update(ctx, func(doc *models.Document) (*models.Document, error) {
		me, err := viewer(doc, session)
		if err != nil {
			return nil, err
		}
		next := doc.Clone()
		next.SetSlots(me.ID, slots)
		if s.flags.Enabled(featureflags.InvalidateWithdrawnSelections, me.ID) {
			next, pruned = scheduling.PruneWithdrawn(next, me.ID)
		}
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	if pruned > 0 {
		observability.GlobalLogger.InfoContext(ctx, "withdrawn slot selections cleared", slog.Int("count", pruned))
	}
	return slots, nil
}

// Availability returns the session user's slots.
func (s *AvailabilityService) Availability(ctx context.Context, session string) ([]models.TimeSlot, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	me, ok := CurrentUser(doc, session)
	if !ok {
		return []models.TimeSlot{}, nil
	}
	out := slices.Clone(doc.SlotsFor(me.ID))
	if out == nil {
		out = []models.TimeSlot{}
	}
	return out, nil
}

// Schedule returns the planner view of the conversation with partnerID.
func (s *AvailabilityService) Schedule(ctx context.Context, session, partnerID string) (ScheduleView, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return ScheduleView{}, err
	}
	me, ok := CurrentUser(doc, session)
	if !ok {
		return ScheduleView{CommonSlots: []models.TimeSlot{}}, nil
	}
	if _, err := matchedPartner(doc, me.ID, partnerID); err != nil {
		return ScheduleView{}, err
	}
	return scheduleView(doc, me.ID, partnerID), nil
}

// SelectSlot toggles the session user's pick in the conversation with
// partnerID. Clearing the current pick is always allowed; a new pick must
// be one of the current common slots.
func (s *AvailabilityService) SelectSlot(ctx context.Context, session, partnerID string, slot models.TimeSlot) (ScheduleView, error) {
	if err := validation.ValidateSlot(slot); err != nil {
		return ScheduleView{}, models.NewValidationError(err.Error())
	}

	var (
		view      ScheduleView
		cleared   bool
		confirmed bool
	)
	_, err := s.store.Update(ctx, func(doc *models.Document) (*models.Document, error) {
		me, err := viewer(doc, session)
		if err != nil {
			return nil, err
		}
		if _, err := matchedPartner(doc, me.ID, partnerID); err != nil {
			return nil, err
		}

		current, hasCurrent := scheduling.Selection(doc.Selections, me.ID, partnerID)
		cleared = hasCurrent && current.Equal(slot)
		if !cleared {
			common := scheduling.CommonSlots(doc.SlotsFor(me.ID), doc.SlotsFor(partnerID))
			idx := slices.IndexFunc(common, slot.Equal)
			if idx < 0 {
				return nil, models.NewSlotNotSharedError()
			}
			slot = common[idx]
		}

		next := doc.Clone()
		next.Selections, confirmed = scheduling.SelectSlot(doc.Selections, me.ID, partnerID, slot)
		view = scheduleView(next, me.ID, partnerID)
		return next, nil
	})
	if err != nil {
		return ScheduleView{}, err
	}

	outcome := "selected"
	if cleared {
		outcome = "cleared"
	}
	observability.SlotSelectionsTotal.WithLabelValues(outcome).Inc()
	if confirmed {
		observability.AppointmentsConfirmedTotal.Inc()
	}
	return view, nil
}

func scheduleView(doc *models.Document, meID, partnerID string) ScheduleView {
	view := ScheduleView{
		ConversationID: scheduling.ConversationID(meID, partnerID),
		CommonSlots:    scheduling.CommonSlots(doc.SlotsFor(meID), doc.SlotsFor(partnerID)),
	}
	if mine, ok := scheduling.Selection(doc.Selections, meID, partnerID); ok {
		view.Mine = &mine
	}
	if theirs, ok := scheduling.Selection(doc.Selections, partnerID, meID); ok {
		view.Theirs = &theirs
	}
	if slot, ok := scheduling.Confirmed(doc.Selections, meID, partnerID); ok {
		view.Confirmed = &slot
	}
	return view
}
