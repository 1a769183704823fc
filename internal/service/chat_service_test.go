package service

import (
	"context"
	"testing"
	"time"

	"clique/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func TestChatServiceRequiresMatch(t *testing.T) {
	doc := swipeDoc()
	svc := NewChatService(seededStore(t, doc))
	ctx := context.Background()

	_, err := svc.Send(ctx, session("an"), "binh", "chào bạn")
	requireCode(t, err, models.CodeNotMatched)

	_, err = svc.Send(ctx, session("an"), "nobody", "chào bạn")
	requireCode(t, err, models.CodeNotFound)

	_, err = svc.Send(ctx, "", "binh", "chào bạn")
	requireCode(t, err, models.CodeNoSession)

	_, err = svc.Conversation(ctx, session("an"), "binh")
	requireCode(t, err, models.CodeNotMatched)

	msgs, err := svc.Conversation(ctx, "", "binh")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestChatServiceRejectsBlankMessage(t *testing.T) {
	svc := NewChatService(seededStore(t, matchedDoc()))
	_, err := svc.Send(context.Background(), session("an"), "binh", "   ")
	requireCode(t, err, models.CodeValidation)
}

func TestChatServiceTimestampsIncrease(t *testing.T) {
	s := seededStore(t, matchedDoc())
	svc := NewChatService(s)
	svc.now = fixedClock(1_000)
	ctx := context.Background()

	first, err := svc.Send(ctx, session("an"), "binh", "  xin chào ")
	require.NoError(t, err)
	second, err := svc.Send(ctx, session("binh"), "an", "chào anh")
	require.NoError(t, err)

	assert.Equal(t, "xin chào", first.Content)
	assert.Equal(t, int64(1_000), first.Timestamp)
	assert.Equal(t, int64(1_001), second.Timestamp)
	assert.NotEqual(t, first.ID, second.ID)

	msgs, err := svc.Conversation(ctx, session("binh"), "an")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "an", msgs[0].SenderID)
	assert.Equal(t, "binh", msgs[1].SenderID)
	assert.Equal(t, "an", msgs[1].ReceiverID)
}

func TestChatServiceInboxOrdersByActivity(t *testing.T) {
	svc := NewChatService(seededStore(t, matchedDoc()))
	ctx := context.Background()

	svc.now = fixedClock(1_000)
	_, err := svc.Send(ctx, session("an"), "binh", "hello binh")
	require.NoError(t, err)

	inbox, err := svc.Inbox(ctx, session("an"))
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	assert.Equal(t, "binh", inbox[0].Partner.ID)
	assert.Equal(t, "an_binh", inbox[0].ConversationID)
	require.NotNil(t, inbox[0].LastMessage)
	assert.Equal(t, "chi", inbox[1].Partner.ID)
	assert.Nil(t, inbox[1].LastMessage)

	svc.now = fixedClock(2_000)
	_, err = svc.Send(ctx, session("chi"), "an", "hello an")
	require.NoError(t, err)

	inbox, err = svc.Inbox(ctx, session("an"))
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	assert.Equal(t, "chi", inbox[0].Partner.ID)
	assert.Equal(t, "hello an", inbox[0].LastMessage.Content)

	empty, err := svc.Inbox(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
