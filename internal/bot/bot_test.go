package bot

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fictionhub/internal/common"
	"fictionhub/internal/features/reports"
	"fictionhub/internal/features/stories"
	"fictionhub/internal/features/users"
	"fictionhub/internal/moderation"
)

type fakeMessenger struct {
	sent []tgbotapi.MessageConfig
}

func (m *fakeMessenger) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		m.sent = append(m.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func (m *fakeMessenger) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

type emptyStore struct{}

func (emptyStore) RecentReports(context.Context, int) ([]*reports.Report, error) { return nil, nil }
func (emptyStore) GetStory(context.Context, int64) (*stories.StoryDetails, error) {
	return nil, common.ErrNotFound
}
func (emptyStore) DeleteStoryCascade(context.Context, int64) error { return common.ErrNotFound }
func (emptyStore) GetUser(context.Context, int64) (*users.User, error) {
	return nil, common.ErrNotFound
}

type nopSender struct{}

func (nopSender) Send(context.Context, string, string, string) error { return nil }

func update(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Chat: &tgbotapi.Chat{ID: chatID},
			From: &tgbotapi.User{ID: chatID},
			Text: text,
		},
	}
}

func newTestBot() (*Bot, *fakeMessenger) {
	messenger := &fakeMessenger{}
	console := moderation.NewConsole(messenger, emptyStore{}, nopSender{}, "hunter2", []int64{100})
	return New(nil, console, 30), messenger
}

func TestDispatchStrangerDoesNotSpawnWorker(t *testing.T) {
	b, messenger := newTestBot()

	b.dispatch(context.Background(), update(999, "/start"))
	b.dispatch(context.Background(), update(999, "hunter2"))
	b.dispatch(context.Background(), update(-42, "hello"))

	b.mu.Lock()
	workers := len(b.workers)
	b.mu.Unlock()
	assert.Zero(t, workers)

	// Посторонний чат всё же получает приглашение ввести пароль.
	require.NotEmpty(t, messenger.sent)
	assert.Equal(t, int64(999), messenger.sent[0].ChatID)
	assert.Contains(t, messenger.sent[0].Text, "Enter the password")
}

func TestDispatchAllowedChatGetsWorker(t *testing.T) {
	b, _ := newTestBot()

	b.dispatch(context.Background(), update(100, "/start"))
	b.dispatch(context.Background(), update(100, "hunter2"))

	b.mu.Lock()
	_, exists := b.workers[100]
	workers := len(b.workers)
	b.mu.Unlock()
	assert.True(t, exists)
	assert.Equal(t, 1, workers)

	b.shutdown()
}

func TestDispatchSkipsUpdatesWithoutChat(t *testing.T) {
	b, messenger := newTestBot()

	b.dispatch(context.Background(), tgbotapi.Update{})

	b.mu.Lock()
	workers := len(b.workers)
	b.mu.Unlock()
	assert.Zero(t, workers)
	assert.Empty(t, messenger.sent)
}
