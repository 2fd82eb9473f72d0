package models

import (
	"sort"
)

// Message is one admitted inbound update. Values are immutable once created
// by the ingest step; they live only in the session queue.
type Message struct {
	ChatID   int64
	UpdateID int64
	Content  string
}

// SameUpdateID reports whether two messages refer to the same update.
// Deduplication is by update id only.
func (m Message) SameUpdateID(other Message) bool {
	return m.UpdateID == other.UpdateID
}

// SameContent reports whether two messages carry identical text.
func (m Message) SameContent(other Message) bool {
	return m.Content == other.Content
}

// SentByChatID reports whether the message originates from the given chat.
func (m Message) SentByChatID(chatID int64) bool {
	return m.ChatID == chatID
}

// SortByUpdateID orders messages ascending by update id, in place.
func SortByUpdateID(messages []Message) {
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].UpdateID < messages[j].UpdateID
	})
}
