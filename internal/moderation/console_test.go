package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fictionhub/internal/common"
	"fictionhub/internal/features/reports"
	"fictionhub/internal/features/stories"
	"fictionhub/internal/features/users"
)

const (
	adminChat   = int64(100)
	outsideChat = int64(999)
	password    = "hunter2"
)

// fakeMessenger копит отправленные сообщения вместо похода в Telegram.
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

func (m *fakeMessenger) lastText() string {
	if len(m.sent) == 0 {
		return ""
	}
	return m.sent[len(m.sent)-1].Text
}

// fakeStore — платформа в памяти.
type fakeStore struct {
	stories map[int64]*stories.StoryDetails
	users   map[int64]*users.User
	reports []*reports.Report
	deleted []int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		stories: map[int64]*stories.StoryDetails{
			10: {Story: stories.Story{ID: 10, AuthorID: 1, Title: "Dragon Tale"}},
		},
		users: map[int64]*users.User{
			1: {ID: 1, Login: "author", Email: "author@example.com"},
			2: {ID: 2, Login: "reader", Email: "reader@example.com"},
		},
	}
}

func (s *fakeStore) RecentReports(_ context.Context, limit int) ([]*reports.Report, error) {
	if len(s.reports) > limit {
		return s.reports[:limit], nil
	}
	return s.reports, nil
}

func (s *fakeStore) GetStory(_ context.Context, id int64) (*stories.StoryDetails, error) {
	d, ok := s.stories[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return d, nil
}

func (s *fakeStore) DeleteStoryCascade(_ context.Context, id int64) error {
	if _, ok := s.stories[id]; !ok {
		return common.ErrNotFound
	}
	delete(s.stories, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *fakeStore) GetUser(_ context.Context, id int64) (*users.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

// fakeSender копит письма.
type fakeSender struct {
	mails []string // "to|subject"
	fail  bool
}

func (s *fakeSender) Send(_ context.Context, to, subject, _ string) error {
	if s.fail {
		return errors.New("smtp down")
	}
	s.mails = append(s.mails, to+"|"+subject)
	return nil
}

func newTestConsole() (*Console, *fakeMessenger, *fakeStore, *fakeSender) {
	bot := &fakeMessenger{}
	store := newFakeStore()
	mailer := &fakeSender{}
	c := NewConsole(bot, store, mailer, password, []int64{adminChat})
	return c, bot, store, mailer
}

func msgUpdate(chatID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Chat: &tgbotapi.Chat{ID: chatID},
			From: &tgbotapi.User{ID: chatID},
			Text: text,
		},
	}
}

func callbackUpdate(chatID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb1",
			Data:    data,
			Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}},
		},
	}
}

func login(c *Console) {
	c.HandleUpdate(context.Background(), msgUpdate(adminChat, password))
}

func TestOutsideChatNeverAuthorizes(t *testing.T) {
	c, bot, _, _ := newTestConsole()

	c.HandleUpdate(context.Background(), msgUpdate(outsideChat, "/start"))
	assert.Contains(t, bot.lastText(), "Enter the password")

	// Даже верный пароль из постороннего чата считается неверным.
	c.HandleUpdate(context.Background(), msgUpdate(outsideChat, password))
	assert.Equal(t, "Wrong password. Enter the password.", bot.lastText())
	assert.False(t, c.isAuthorized(outsideChat))

	c.HandleUpdate(context.Background(), msgUpdate(outsideChat, "/reports"))
	assert.Equal(t, "Wrong password. Enter the password.", bot.lastText())
}

func TestWrongPassword(t *testing.T) {
	c, bot, _, _ := newTestConsole()

	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "guess"))
	assert.Equal(t, "Wrong password. Enter the password.", bot.lastText())
	assert.False(t, c.isAuthorized(adminChat))

	// Без пароля команды не работают, текст трактуется как пароль.
	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "/reports"))
	assert.Equal(t, "Wrong password. Enter the password.", bot.lastText())
}

func TestCorrectPassword(t *testing.T) {
	c, bot, _, _ := newTestConsole()

	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "/start"))
	assert.Contains(t, bot.lastText(), "Enter the password")

	login(c)
	assert.True(t, c.isAuthorized(adminChat))
	assert.Contains(t, bot.lastText(), "Access granted")
}

func TestBanStoryFlow(t *testing.T) {
	c, bot, store, mailer := newTestConsole()
	login(c)

	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "/ban_story"))
	assert.Contains(t, bot.lastText(), "story id")

	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "10"))
	assert.Contains(t, bot.lastText(), "reason")

	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "plagiarism"))

	require.Equal(t, []int64{10}, store.deleted)
	require.Len(t, mailer.mails, 1)
	assert.Equal(t, "author@example.com|Your story has been removed", mailer.mails[0])
	assert.Contains(t, bot.lastText(), "deleted")
	assert.Nil(t, c.getPending(adminChat))
}

func TestBanStoryNotFound(t *testing.T) {
	c, bot, store, mailer := newTestConsole()
	login(c)

	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "/ban_story"))
	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "777"))
	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "whatever"))

	assert.Contains(t, bot.lastText(), "not found")
	assert.Empty(t, store.deleted)
	assert.Empty(t, mailer.mails)
}

func TestBadTargetKeepsPending(t *testing.T) {
	c, bot, _, _ := newTestConsole()
	login(c)

	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "/ban_story"))
	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "not-a-number"))

	assert.Contains(t, bot.lastText(), "numeric id")
	p := c.getPending(adminChat)
	require.NotNil(t, p)
	assert.Equal(t, stageAwaitingTarget, p.stage)
}

func TestWarnUserFlow(t *testing.T) {
	c, bot, _, mailer := newTestConsole()
	login(c)

	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "/warn_user"))
	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "2"))
	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "spam in comments"))

	require.Len(t, mailer.mails, 1)
	assert.Equal(t, "reader@example.com|Moderation warning", mailer.mails[0])
	assert.Contains(t, bot.lastText(), "warned")
}

func TestWarnUserEmailFailureIsReported(t *testing.T) {
	c, bot, _, mailer := newTestConsole()
	mailer.fail = true
	login(c)

	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "/warn_user"))
	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "2"))
	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "spam"))

	assert.Contains(t, bot.lastText(), "email failed")
}

func TestBanStoryEmailFailureStillDeletes(t *testing.T) {
	c, bot, store, mailer := newTestConsole()
	mailer.fail = true
	login(c)

	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "/ban_story"))
	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "10"))
	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "plagiarism"))

	// Письмо не ушло, но история удалена и модератору об этом сказано.
	assert.Equal(t, []int64{10}, store.deleted)
	assert.Contains(t, bot.lastText(), "deleted")
}

func TestRequestEditFlow(t *testing.T) {
	c, bot, store, mailer := newTestConsole()
	login(c)

	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "/request_edit"))
	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "10"))
	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "tone down chapter 3"))

	require.Len(t, mailer.mails, 1)
	assert.Equal(t, "author@example.com|Please edit your story", mailer.mails[0])
	assert.Empty(t, store.deleted)
	assert.Contains(t, bot.lastText(), "sent to author")
}

func TestCancel(t *testing.T) {
	c, bot, _, _ := newTestConsole()
	login(c)

	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "/cancel"))
	assert.Equal(t, "Nothing to cancel.", bot.lastText())

	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "/ban_story"))
	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "/cancel"))
	assert.Equal(t, "Action cancelled.", bot.lastText())
	assert.Nil(t, c.getPending(adminChat))
}

func TestNewCommandResetsPending(t *testing.T) {
	c, _, _, _ := newTestConsole()
	login(c)

	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "/ban_story"))
	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "/warn_user"))

	p := c.getPending(adminChat)
	require.NotNil(t, p)
	assert.Equal(t, actionWarnUser, p.kind)
	assert.Equal(t, stageAwaitingTarget, p.stage)
}

func TestCallbackJumpsToReason(t *testing.T) {
	c, bot, store, mailer := newTestConsole()
	login(c)

	c.HandleUpdate(context.Background(), callbackUpdate(adminChat, "ban_story:10"))
	p := c.getPending(adminChat)
	require.NotNil(t, p)
	assert.Equal(t, actionBanStory, p.kind)
	assert.Equal(t, stageAwaitingReason, p.stage)
	assert.Equal(t, int64(10), p.targetID)
	assert.Contains(t, bot.lastText(), "reason")

	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "plagiarism"))
	assert.Equal(t, []int64{10}, store.deleted)
	require.Len(t, mailer.mails, 1)
}

func TestCallbackIgnoredWithoutAuthorization(t *testing.T) {
	c, _, _, _ := newTestConsole()

	c.HandleUpdate(context.Background(), callbackUpdate(adminChat, "ban_story:10"))
	assert.Nil(t, c.getPending(adminChat))
}

func TestCallbackBadData(t *testing.T) {
	c, _, _, _ := newTestConsole()
	login(c)

	c.HandleUpdate(context.Background(), callbackUpdate(adminChat, "garbage"))
	c.HandleUpdate(context.Background(), callbackUpdate(adminChat, "ban_story:zero"))
	c.HandleUpdate(context.Background(), callbackUpdate(adminChat, "warn_user:1"))
	c.HandleUpdate(context.Background(), callbackUpdate(adminChat, "explode:10"))

	assert.Nil(t, c.getPending(adminChat))
}

func TestReportsEmpty(t *testing.T) {
	c, bot, _, _ := newTestConsole()
	login(c)

	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "/reports"))
	assert.Equal(t, "No reports.", bot.lastText())
}

func TestReportsWithButtons(t *testing.T) {
	c, bot, store, _ := newTestConsole()
	login(c)

	store.reports = []*reports.Report{
		{
			ID: 1, StoryID: 10, StoryTitle: "Dragon Tale",
			StoryAuthorID: 1, StoryAuthorLogin: "author",
			ReporterID: 2, ReporterLogin: "reader", Reason: "plagiarism",
			CreatedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		},
	}

	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "/reports"))

	last := bot.sent[len(bot.sent)-1]
	assert.Contains(t, last.Text, "Dragon Tale")
	assert.Contains(t, last.Text, "author (#1)")
	assert.Contains(t, last.Text, "plagiarism")

	markup, ok := last.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 1)
	row := markup.InlineKeyboard[0]
	require.Len(t, row, 3)
	assert.Equal(t, "ban_story:10", *row[0].CallbackData)
	assert.Equal(t, "ban_user:1", *row[1].CallbackData)
	assert.Equal(t, "request_edit:10", *row[2].CallbackData)
}

func TestNewReportBroadcast(t *testing.T) {
	c, bot, _, _ := newTestConsole()

	c.NotifyNewReport(&reports.Report{
		ID: 5, StoryID: 10, StoryTitle: "Dragon Tale",
		StoryAuthorID: 1, StoryAuthorLogin: "author",
		ReporterLogin: "reader", Reason: "spoilers",
	})

	require.Len(t, bot.sent, 1)
	assert.Equal(t, adminChat, bot.sent[0].ChatID)
	assert.Contains(t, bot.sent[0].Text, fmt.Sprintf("report #%d", 5))
	assert.Contains(t, bot.sent[0].Text, "Dragon Tale")
	assert.Contains(t, bot.sent[0].Text, "author (#1)")
}

func TestUnknownCommand(t *testing.T) {
	c, bot, _, _ := newTestConsole()
	login(c)

	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "/selfdestruct"))
	assert.Contains(t, bot.lastText(), "Unknown command")
}

func TestFreeTextWithoutPending(t *testing.T) {
	c, bot, _, _ := newTestConsole()
	login(c)

	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "hello there"))
	assert.Contains(t, bot.lastText(), "Unknown input")
}

func TestLoginShowsMainMenu(t *testing.T) {
	c, bot, _, _ := newTestConsole()
	login(c)

	require.NotEmpty(t, bot.sent)
	last := bot.sent[len(bot.sent)-1]
	markup, ok := last.ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	require.True(t, ok)
	var labels []string
	for _, row := range markup.Keyboard {
		for _, b := range row {
			labels = append(labels, b.Text)
		}
	}
	assert.Contains(t, labels, "Ban Story")
	assert.Contains(t, labels, "Warn User")
	assert.Contains(t, labels, "Main Menu")
}

func TestRepeatedPasswordIsIdempotent(t *testing.T) {
	c, bot, _, _ := newTestConsole()
	login(c)

	before := len(bot.sent)
	login(c)

	assert.True(t, c.isAuthorized(adminChat))
	assert.Len(t, bot.sent, before+1)
	assert.Contains(t, bot.lastText(), "already logged in")
}

func TestMenuButtonStartsAction(t *testing.T) {
	c, bot, _, _ := newTestConsole()
	login(c)

	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "Ban Story"))
	assert.Contains(t, bot.lastText(), "story id")

	p := c.getPending(adminChat)
	require.NotNil(t, p)
	assert.Equal(t, actionBanStory, p.kind)
	assert.Equal(t, stageAwaitingTarget, p.stage)
}

func TestMainMenuAbortsPending(t *testing.T) {
	c, bot, _, _ := newTestConsole()
	login(c)

	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "/warn_user"))
	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "Main Menu"))

	assert.Nil(t, c.getPending(adminChat))
	assert.Equal(t, "Main menu.", bot.lastText())

	// Следующий свободный текст уже не трактуется как id цели.
	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "2"))
	assert.Contains(t, bot.lastText(), "Unknown input")
}

func TestOverlongReasonKeepsPending(t *testing.T) {
	c, bot, store, _ := newTestConsole()
	login(c)

	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "/ban_story"))
	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "10"))
	c.HandleUpdate(context.Background(), msgUpdate(adminChat, strings.Repeat("x", maxReasonLen+1)))

	assert.Contains(t, bot.lastText(), "limited to")
	assert.Empty(t, store.deleted)
	p := c.getPending(adminChat)
	require.NotNil(t, p)
	assert.Equal(t, stageAwaitingReason, p.stage)

	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "plagiarism"))
	assert.Equal(t, []int64{10}, store.deleted)
}

func TestWarnUserWithoutEmail(t *testing.T) {
	c, bot, store, mailer := newTestConsole()
	store.users[3] = &users.User{ID: 3, Login: "ghost", Email: ""}
	login(c)

	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "/warn_user"))
	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "3"))
	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "spam"))

	assert.Empty(t, mailer.mails)
	assert.Contains(t, bot.lastText(), "warned")
}

func TestReportDetailsShown(t *testing.T) {
	c, bot, store, _ := newTestConsole()
	login(c)

	store.reports = []*reports.Report{
		{
			ID: 1, StoryID: 10, StoryTitle: "Dragon Tale", StoryAuthorID: 1,
			ReporterID: 2, ReporterLogin: "reader", Reason: "plagiarism",
			Details:   "chapter 2 is copied verbatim",
			CreatedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		},
	}

	c.HandleUpdate(context.Background(), msgUpdate(adminChat, "/reports"))
	assert.Contains(t, bot.lastText(), "chapter 2 is copied verbatim")
}
