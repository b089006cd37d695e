package domain

import "time"

// ChatMessage is a direct message between two users.
type ChatMessage struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
	IsRead     bool      `json:"is_read"`
}

// UnmarshalJSON accepts both "id" and "_id".
func (m *ChatMessage) UnmarshalJSON(data []byte) error {
	type alias ChatMessage
	return unmarshalWithLegacyID(data, (*alias)(m), &m.ID)
}

// ConversationUser is the counterpart shown in a conversation list.
type ConversationUser struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}

// Conversation summarizes the latest exchange with one user.
type Conversation struct {
	User            ConversationUser `json:"user"`
	LastMessage     string           `json:"last_message"`
	LastMessageTime time.Time        `json:"last_message_time"`
	UnreadCount     int              `json:"unread_count"`
}
