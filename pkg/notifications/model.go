package notifications

import "time"

const (
	KindOfferAccepted = "offer_accepted"
	KindOfferClosed   = "offer_closed"
	KindNegotiation   = "negotiation"
	KindMessage       = "message"
	KindSystem        = "system"
)

const (
	StatusUnread = "unread"
	StatusRead   = "read"
)

type Notification struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}
