package models

// ChatMessage is one entry in a conversation between matched users.
// Timestamp is in Unix milliseconds.
type ChatMessage struct {
	ID         string `json:"id"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Content    string `json:"content"`
	Timestamp  int64  `json:"timestamp"`
}
