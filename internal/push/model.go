package push

import "time"

// Subscription is a browser push endpoint registered by a user. The p256dh
// and auth keys are stored verbatim for the delivery layer; this service
// never interprets them.
type Subscription struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Endpoint  string    `json:"endpoint"`
	P256dh    string    `json:"p256dh"`
	Auth      string    `json:"auth"`
	UserAgent *string   `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

// Notification is the reminder content handed to a Sender.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
