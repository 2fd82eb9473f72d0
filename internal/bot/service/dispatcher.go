package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"botto/internal/common/metrics"
	"botto/internal/conversation"
	"botto/internal/domain/clients"
	"botto/internal/domain/models"
)

// UserDirectory is the persistent user store as the dispatcher sees it.
type UserDirectory interface {
	CreateUser(ctx context.Context, name string, chatID *int64, isAdmin bool) (*models.User, error)

	GetUsers(ctx context.Context) ([]*models.User, error)

	SetChatID(ctx context.Context, name string, chatID int64) error

	RenameUser(ctx context.Context, oldName, newName string) error
}

// StateStore persists the durable bot state.
type StateStore interface {
	Save(botState models.BotState) error
}

type TxManager interface {
	WithTransaction(ctx context.Context, txFunc func(ctx context.Context) error) error
}

const bootstrapUserName = "root"

// Dispatcher drains the session queue each cycle: it routes messages to
// registered users, drives their conversations and performs the one-time
// bootstrap that turns the first contact into the admin user.
type Dispatcher struct {
	users          UserDirectory
	telegramClient clients.TelegramClient
	store          StateStore
	txManager      TxManager
	botState       *models.BotState
	logger         *slog.Logger
}

func NewDispatcher(
	users UserDirectory,
	telegramClient clients.TelegramClient,
	store StateStore,
	txManager TxManager,
	botState *models.BotState,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		users:          users,
		telegramClient: telegramClient,
		store:          store,
		txManager:      txManager,
		botState:       botState,
		logger:         logger,
	}
}

// Dispatch consumes the whole queue; the queue is cleared even when routing
// fails or ends early, so one bad batch cannot wedge the pipeline.
func (d *Dispatcher) Dispatch(ctx context.Context, session *models.Session) error {
	defer session.ClearMessages()

	if len(session.Messages) == 0 {
		return nil
	}

	queue := session.Messages

	if !d.botState.IsConfigured && len(session.Users) == 0 {
		if err := d.bootstrap(ctx, session); err != nil {
			return err
		}

		// The first message belongs to the bootstrap dialogue and must
		// not be interpreted again as a command.
		queue = queue[1:]
	}

	for _, message := range queue {
		user := session.FindByChatID(message.ChatID)
		if user == nil {
			metrics.RecordDispatchedMessage(metrics.OutcomeUnknownChat)
			continue
		}

		if user.Handler != nil {
			metrics.RecordDispatchedMessage(metrics.OutcomeConversation)
		} else {
			metrics.RecordDispatchedMessage(metrics.OutcomeRouted)
		}

		response := Route(user, message.Content)

		if user.Handler != nil && user.Handler.State() == conversation.StateDone {
			d.send(ctx, user, response)

			if user.Handler.Kind() == conversation.KindSetup {
				if err := d.completeSetup(ctx, session, user); err != nil {
					return err
				}
			} else {
				user.Handler = nil
			}

			// The pass ends on the first completed conversation; the
			// deferred clear still retires the remaining messages.
			return nil
		}

		d.send(ctx, user, response)
	}

	return nil
}

// bootstrap turns the sender of the very first message into the root/admin
// user and opens the setup dialogue with them.
func (d *Dispatcher) bootstrap(ctx context.Context, session *models.Session) error {
	message := session.Messages[0]

	rootUser, err := d.users.CreateUser(ctx, bootstrapUserName, nil, true)
	if err != nil {
		return fmt.Errorf("failed to create bootstrap user: %w", err)
	}

	chatID := message.ChatID
	rootUser.ChatID = &chatID
	rootUser.Handler = conversation.NewSetupHandler()
	session.Users = append(session.Users, rootUser)

	if err := d.users.SetChatID(ctx, rootUser.Name, chatID); err != nil {
		return fmt.Errorf("failed to bind bootstrap chat id: %w", err)
	}

	d.logger.Info("bootstrap started", "chat_id", chatID)

	response := rootUser.Handler.Respond(message.Content)
	d.send(ctx, rootUser, response)

	if err := d.store.Save(*d.botState); err != nil {
		return fmt.Errorf("failed to persist state after bootstrap: %w", err)
	}

	return nil
}

// completeSetup extracts the finished dialogue's data, renames the bootstrap
// user, registers one user per roommate and announces the tokens.
func (d *Dispatcher) completeSetup(ctx context.Context, session *models.Session, user *models.User) error {
	handler, ok := user.Handler.(*conversation.SetupHandler)
	if !ok {
		return fmt.Errorf("conversation tagged %s is not a setup handler", user.Handler.Kind())
	}

	result, err := handler.Result()
	if err != nil {
		// Programming error, never forwarded to the chat.
		return fmt.Errorf("failed to extract setup result: %w", err)
	}

	err = d.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := d.users.RenameUser(txCtx, user.Name, result.RootName); err != nil {
			return err
		}

		for _, name := range result.Roommates {
			if _, err := d.users.CreateUser(txCtx, name, nil, false); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to register household: %w", err)
	}

	user.Name = result.RootName

	freshUsers, err := d.users.GetUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload users: %w", err)
	}

	session.Reload(freshUsers)

	rootUser := session.FindByName(result.RootName)
	if rootUser == nil {
		return fmt.Errorf("bootstrap user %q missing after reload", result.RootName)
	}

	rootUser.Handler = nil

	d.send(ctx, rootUser, tokenSummary(session.Users))

	d.botState.IsConfigured = true

	if err := d.store.Save(*d.botState); err != nil {
		return fmt.Errorf("failed to persist configured state: %w", err)
	}

	metrics.RecordSetupCompleted()
	d.logger.Info("setup completed", "root", result.RootName, "roommates", len(result.Roommates))

	return nil
}

func tokenSummary(users []*models.User) string {
	lines := make([]string, 0, len(users))
	for _, user := range users {
		lines = append(lines, fmt.Sprintf("%s: %s", user.Name, user.Token))
	}

	return "Here you go! All users and their tokens:\n\n" +
		strings.Join(lines, "\n") +
		"\nThey just need to provide them when writing to me and they can get started!"
}

// send delivers one reply. Failures stop only this send, never the cycle;
// a user with no bound chat id is logged and skipped.
func (d *Dispatcher) send(ctx context.Context, user *models.User, text string) {
	if text == "" {
		return
	}

	if user.ChatID == nil {
		d.logger.Error("user has no chat id", "user", user.Name)
		return
	}

	if err := d.telegramClient.SendMessage(ctx, *user.ChatID, text); err != nil {
		metrics.RecordSendFailure()
		d.logger.Error("failed to send message",
			"error", err,
			"user", user.Name,
			"chat_id", *user.ChatID,
		)
	}
}
