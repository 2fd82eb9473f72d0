// Package ingest turns raw gateway updates into the ordered message queue.
// Filtering is intentional: updates without a chat id, an update id or text
// (photos, stickers, voice, documents) are dropped per item, never failing
// the batch.
package ingest

import (
	"botto/internal/domain/clients"
	"botto/internal/domain/models"
)

// Ingest admits well-formed updates, orders them ascending by update id and
// computes the new cursor as the maximum admitted id. When nothing is
// admitted the cursor comes back untouched.
func Ingest(raw []clients.Update, cursor *int64) ([]models.Message, *int64) {
	messages := make([]models.Message, 0, len(raw))

	for _, update := range raw {
		if !admissible(update) {
			continue
		}

		messages = append(messages, models.Message{
			ChatID:   update.Message.Chat.ID,
			UpdateID: update.UpdateID,
			Content:  update.Message.Text,
		})
	}

	if len(messages) == 0 {
		return nil, cursor
	}

	models.SortByUpdateID(messages)

	newCursor := messages[len(messages)-1].UpdateID

	return messages, &newCursor
}

func admissible(update clients.Update) bool {
	return update.UpdateID != 0 &&
		update.Message != nil &&
		update.Message.Chat != nil &&
		update.Message.Text != ""
}
