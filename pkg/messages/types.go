package messages

import (
	"time"

	"startupconnect/pkg/policy"
)

// Message is a direct message between a startup and an investor user.
type Message struct {
	ID         int64     `json:"id"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	Content    string    `json:"content"`
	SentAt     time.Time `json:"sent_at"`
}

// Contact is a user the caller has exchanged messages with.
type Contact struct {
	ID       int64       `json:"id"`
	FullName string      `json:"full_name"`
	Email    string      `json:"email"`
	Role     policy.Role `json:"role" swaggertype:"string"`
}

// ConversationPage is a page of history, oldest first.
type ConversationPage struct {
	Messages []Message `json:"messages"`
	Count    int       `json:"count"`
}
