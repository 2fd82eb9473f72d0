package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"botto/internal/common/metrics"
	"botto/internal/domain/clients"
	"botto/internal/domain/models"
)

// StateStore persists the durable bot state between cycles.
type StateStore interface {
	Save(botState models.BotState) error
}

// Ingestor runs one fetch cycle: pull raw updates after the durable cursor,
// admit and order them, persist the advanced cursor and only then hand the
// messages to the session queue. Persisting first means a crash between
// ingest and dispatch re-delivers messages instead of losing them
// (at-least-once).
type Ingestor struct {
	telegramClient clients.TelegramClient
	store          StateStore
	botState       *models.BotState
	logger         *slog.Logger
}

func NewIngestor(
	telegramClient clients.TelegramClient,
	store StateStore,
	botState *models.BotState,
	logger *slog.Logger,
) *Ingestor {
	return &Ingestor{
		telegramClient: telegramClient,
		store:          store,
		botState:       botState,
		logger:         logger,
	}
}

func (i *Ingestor) Run(ctx context.Context, session *models.Session) error {
	updates, err := i.telegramClient.GetUpdates(ctx, i.botState.LastUpdateID)
	if err != nil {
		return fmt.Errorf("failed to fetch updates: %w", err)
	}

	if len(updates) == 0 {
		return nil
	}

	messages, newCursor := Ingest(updates, i.botState.LastUpdateID)

	for range messages {
		metrics.RecordIngestedUpdate()
	}

	for n := len(updates) - len(messages); n > 0; n-- {
		metrics.RecordDroppedUpdate(metrics.DropReasonMalformed)
	}

	if len(messages) == 0 {
		return nil
	}

	// Cursor write must happen before the messages become visible to the
	// dispatcher.
	previous := i.botState.LastUpdateID
	i.botState.LastUpdateID = newCursor

	if err := i.store.Save(*i.botState); err != nil {
		i.botState.LastUpdateID = previous
		return fmt.Errorf("failed to persist cursor: %w", err)
	}

	session.Enqueue(messages...)

	i.logger.Info("ingested updates",
		"admitted", len(messages),
		"dropped", len(updates)-len(messages),
		"cursor", *newCursor,
	)

	return nil
}
