package clients

import (
	"context"
)

// TelegramClient is the outbound/inbound chat transport: long-poll fetch of
// raw updates and plain-text sends.
type TelegramClient interface {
	// GetUpdates fetches everything after the exclusive offset. A nil
	// offset means cold start: fetch whatever the gateway has buffered.
	GetUpdates(ctx context.Context, offset *int64) ([]Update, error)

	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Update is one raw message event as received from the gateway, prior to
// validation. Non-text events (photos, stickers, voice, documents) arrive
// with a nil or textless Message.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

type Message struct {
	MessageID int64  `json:"message_id"`
	Text      string `json:"text"`
	Chat      *Chat  `json:"chat"`
	From      User   `json:"from"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}
