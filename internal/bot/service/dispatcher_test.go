package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botto/internal/bot/repository/memory"
	"botto/internal/bot/service"
	"botto/internal/conversation"
	"botto/internal/domain/clients"
	"botto/internal/domain/models"
	"botto/pkg"
)

type sentMessage struct {
	chatID int64
	text   string
}

type fakeTelegramClient struct {
	sent []sentMessage
}

func (c *fakeTelegramClient) GetUpdates(_ context.Context, _ *int64) ([]clients.Update, error) {
	return nil, nil
}

func (c *fakeTelegramClient) SendMessage(_ context.Context, chatID int64, text string) error {
	c.sent = append(c.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

type fakeStateStore struct {
	saved []models.BotState
}

func (s *fakeStateStore) Save(botState models.BotState) error {
	s.saved = append(s.saved, botState)
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) WithTransaction(ctx context.Context, txFunc func(ctx context.Context) error) error {
	return txFunc(ctx)
}

type dispatcherEnv struct {
	dispatcher *service.Dispatcher
	repo       *memory.UserRepository
	client     *fakeTelegramClient
	store      *fakeStateStore
	botState   *models.BotState
	session    *models.Session
}

func newDispatcherEnv(t *testing.T, botState models.BotState) *dispatcherEnv {
	t.Helper()

	env := &dispatcherEnv{
		repo:     memory.NewUserRepository(),
		client:   &fakeTelegramClient{},
		store:    &fakeStateStore{},
		botState: &botState,
		session:  models.NewSession(nil),
	}
	env.dispatcher = service.NewDispatcher(
		env.repo,
		env.client,
		env.store,
		passthroughTxManager{},
		env.botState,
		pkg.NewDiscardLogger(),
	)

	return env
}

func (e *dispatcherEnv) cycle(t *testing.T, chatID, updateID int64, content string) {
	t.Helper()

	e.session.Enqueue(models.Message{ChatID: chatID, UpdateID: updateID, Content: content})
	require.NoError(t, e.dispatcher.Dispatch(context.Background(), e.session))
}

func (e *dispatcherEnv) lastSent(t *testing.T) sentMessage {
	t.Helper()

	require.NotEmpty(t, e.client.sent)

	return e.client.sent[len(e.client.sent)-1]
}

func TestDispatcher_BootstrapCreatesRootUser(t *testing.T) {
	env := newDispatcherEnv(t, models.DefaultBotState())

	env.cycle(t, 42, 1, "Hello")

	require.Len(t, env.session.Users, 1)
	rootUser := env.session.Users[0]
	assert.Equal(t, "root", rootUser.Name)
	assert.True(t, rootUser.IsAdmin)
	require.NotNil(t, rootUser.ChatID)
	assert.Equal(t, int64(42), *rootUser.ChatID)
	require.NotNil(t, rootUser.Handler)
	assert.Equal(t, conversation.StateConfirmName, rootUser.Handler.State())

	require.Len(t, env.client.sent, 1)
	assert.Equal(t, int64(42), env.client.sent[0].chatID)
	assert.Equal(t, "Hello! You are now the root user. What's your name?", env.client.sent[0].text)

	persisted, err := env.repo.GetUserByName(context.Background(), "root")
	require.NoError(t, err)
	require.NotNil(t, persisted.ChatID)
	assert.Equal(t, int64(42), *persisted.ChatID)

	assert.Empty(t, env.session.Messages)
	require.Len(t, env.store.saved, 1)
	assert.False(t, env.store.saved[0].IsConfigured)
}

func TestDispatcher_SetupEndToEnd(t *testing.T) {
	env := newDispatcherEnv(t, models.DefaultBotState())
	ctx := context.Background()

	env.cycle(t, 42, 1, "Hello")
	env.cycle(t, 42, 2, "John")
	assert.Equal(t, "Hello, John! Is this correct? (yes/no)", env.lastSent(t).text)

	env.cycle(t, 42, 3, "yes")
	env.cycle(t, 42, 4, "Mark, Jane, Doe")
	assert.Equal(t, "Are Mark, Jane, Doe your roommates? (yes/no)", env.lastSent(t).text)

	env.cycle(t, 42, 5, "yes")

	users, err := env.repo.GetUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 4)

	assert.Equal(t, "John", users[0].Name)
	assert.True(t, users[0].IsAdmin)

	for i, name := range []string{"Mark", "Jane", "Doe"} {
		assert.Equal(t, name, users[i+1].Name)
		assert.False(t, users[i+1].IsAdmin)
		assert.Len(t, users[i+1].Token, 6)
	}

	require.GreaterOrEqual(t, len(env.client.sent), 2)
	assert.Equal(t, "All set!", env.client.sent[len(env.client.sent)-2].text)

	summary := env.lastSent(t).text
	assert.Contains(t, summary, "Here you go! All users and their tokens:")

	for _, user := range users {
		assert.Contains(t, summary, user.Name+": "+user.Token)
	}

	assert.Contains(t, summary, "They just need to provide them when writing to me and they can get started!")

	assert.True(t, env.botState.IsConfigured)
	assert.True(t, env.store.saved[len(env.store.saved)-1].IsConfigured)

	rootUser := env.session.FindByName("John")
	require.NotNil(t, rootUser)
	assert.Nil(t, rootUser.Handler)
	assert.Empty(t, env.session.Messages)
}

func TestDispatcher_CompletionRetiresRestOfQueue(t *testing.T) {
	env := newDispatcherEnv(t, models.DefaultBotState())

	env.cycle(t, 42, 1, "Hello")
	env.cycle(t, 42, 2, "John")
	env.cycle(t, 42, 3, "yes")
	env.cycle(t, 42, 4, "Mark, Jane, Doe")

	sentBefore := len(env.client.sent)

	env.session.Enqueue(
		models.Message{ChatID: 42, UpdateID: 5, Content: "yes"},
		models.Message{ChatID: 42, UpdateID: 6, Content: "/help"},
	)
	require.NoError(t, env.dispatcher.Dispatch(context.Background(), env.session))

	// /help arrived behind the completing message and is retired unanswered.
	assert.Len(t, env.client.sent, sentBefore+2)
	assert.Empty(t, env.session.Messages)
	assert.True(t, env.botState.IsConfigured)
}

func TestDispatcher_UnknownChatIsIgnored(t *testing.T) {
	env := newDispatcherEnv(t, models.BotState{IsConfigured: true, Language: "en"})

	chatID := int64(42)
	env.session.Users = []*models.User{{Name: "John", ChatID: &chatID, IsAdmin: true}}

	env.cycle(t, 99, 1, "Hello")

	assert.Empty(t, env.client.sent)
	assert.Empty(t, env.session.Messages)

	users, err := env.repo.GetUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestDispatcher_ConfiguredBotNeverBootstraps(t *testing.T) {
	env := newDispatcherEnv(t, models.BotState{IsConfigured: true, Language: "en"})

	env.cycle(t, 42, 1, "Hello")

	users, err := env.repo.GetUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Empty(t, env.client.sent)
}

func TestDispatcher_RoutesCommandsForIdleUser(t *testing.T) {
	env := newDispatcherEnv(t, models.BotState{IsConfigured: true, Language: "en"})

	chatID := int64(42)
	env.session.Users = []*models.User{{Name: "John", ChatID: &chatID, IsAdmin: true}}

	env.cycle(t, 42, 1, "wat")

	require.Len(t, env.client.sent, 1)
	assert.Equal(t, "That is not a valid command. Type /help for a list of commands.", env.client.sent[0].text)
}

func TestDispatcher_EmptyQueueIsNoOp(t *testing.T) {
	env := newDispatcherEnv(t, models.DefaultBotState())

	require.NoError(t, env.dispatcher.Dispatch(context.Background(), env.session))

	assert.Empty(t, env.client.sent)

	users, err := env.repo.GetUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}
