package service

import (
	"cmp"
	"context"
	"slices"
	"time"

	"clique/internal/models"
	"clique/internal/observability"
	"clique/internal/scheduling"
	"clique/internal/validation"

	"github.com/google/uuid"
)

// ConversationSummary is one inbox row.
type ConversationSummary struct {
	ConversationID string              `json:"conversationId"`
	Partner        models.UserProfile  `json:"partner"`
	LastMessage    *models.ChatMessage `json:"lastMessage,omitempty"`
	Confirmed      *models.TimeSlot    `json:"confirmed,omitempty"`
}

// ChatService handles messages between matched users.
type ChatService struct {
	store DocumentStore
	now   func() time.Time
}

// NewChatService returns a new ChatService.
func NewChatService(store DocumentStore) *ChatService {
	return &ChatService{store: store, now: time.Now}
}

// Send appends a message to the conversation with receiverID. Timestamps
// strictly increase within a conversation.
func (s *ChatService) Send(ctx context.Context, session, receiverID, content string) (*models.ChatMessage, error) {
	content, err := validation.NormalizeMessage(content)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	var msg models.ChatMessage
	_, err = s.store.Update(ctx, func(doc *models.Document) (*models.Document, error) {
		me, err := viewer(doc, session)
		if err != nil {
			return nil, err
		}
		if _, err := matchedPartner(doc, me.ID, receiverID); err != nil {
			return nil, err
		}

		chat := scheduling.ConversationID(me.ID, receiverID)
		ts := s.now().UnixMilli()
		if history := doc.Messages[chat]; len(history) > 0 {
			ts = max(ts, history[len(history)-1].Timestamp+1)
		}
		msg = models.ChatMessage{
			ID:         uuid.NewString(),
			SenderID:   me.ID,
			ReceiverID: receiverID,
			Content:    content,
			Timestamp:  ts,
		}

		next := doc.Clone()
		next.Messages[chat] = append(next.Messages[chat], msg)
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	observability.MessagesTotal.Inc()
	return &msg, nil
}

// Conversation returns the messages exchanged with partnerID, oldest first.
func (s *ChatService) Conversation(ctx context.Context, session, partnerID string) ([]models.ChatMessage, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	me, ok := CurrentUser(doc, session)
	if !ok {
		return []models.ChatMessage{}, nil
	}
	if _, err := matchedPartner(doc, me.ID, partnerID); err != nil {
		return nil, err
	}
	out := slices.Clone(doc.Messages[scheduling.ConversationID(me.ID, partnerID)])
	if out == nil {
		out = []models.ChatMessage{}
	}
	return out, nil
}

// Inbox lists every match with its latest message, most recent activity
// first. Matches without messages keep match order at the end.
func (s *ChatService) Inbox(ctx context.Context, session string) ([]ConversationSummary, error) {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := []ConversationSummary{}
	me, ok := CurrentUser(doc, session)
	if !ok {
		return out, nil
	}

	for _, partner := range profiles(doc, doc.Matches.PartnersOf(me.ID)) {
		chat := scheduling.ConversationID(me.ID, partner.ID)
		row := ConversationSummary{ConversationID: chat, Partner: partner}
		if history := doc.Messages[chat]; len(history) > 0 {
			last := history[len(history)-1]
			row.LastMessage = &last
		}
		if slot, ok := scheduling.Confirmed(doc.Selections, me.ID, partner.ID); ok {
			row.Confirmed = &slot
		}
		out = append(out, row)
	}

	slices.SortStableFunc(out, func(a, b ConversationSummary) int {
		return cmp.Compare(lastActivity(b), lastActivity(a))
	})
	return out, nil
}

func lastActivity(c ConversationSummary) int64 {
	if c.LastMessage == nil {
		return 0
	}
	return c.LastMessage.Timestamp
}
