package moderation

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"fictionhub/internal/email"
	"fictionhub/internal/features/reports"
)

// Messenger — минимум, который консоли нужен от Telegram-клиента.
// Боевая реализация — *tgbotapi.BotAPI.
type Messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Число жалоб в выдаче /reports.
const reportsLimit = 10

// Предел длины причины модераторского действия.
const maxReasonLen = 1000

// Подписи кнопок главного меню.
const (
	btnBanStory    = "Ban Story"
	btnWarnUser    = "Warn User"
	btnRequestEdit = "Request Edit"
	btnListReports = "List Reports"
	btnMainMenu    = "Main Menu"
)

func menuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnBanStory),
			tgbotapi.NewKeyboardButton(btnWarnUser),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnRequestEdit),
			tgbotapi.NewKeyboardButton(btnListReports),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnMainMenu),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// Console — модераторская консоль. Состояние сессий и незавершённых
// действий живёт в памяти и принадлежит консоли; доступ под мьютексом.
type Console struct {
	bot     Messenger
	store   Store
	mailer  email.Sender
	secret  string
	allowed map[int64]struct{}

	mu         sync.Mutex
	authorized map[int64]struct{}
	pending    map[int64]*pendingAction
}

// NewConsole создаёт консоль модерации.
func NewConsole(bot Messenger, store Store, mailer email.Sender, secret string, allowedChats []int64) *Console {
	allowed := make(map[int64]struct{}, len(allowedChats))
	for _, id := range allowedChats {
		allowed[id] = struct{}{}
	}
	return &Console{
		bot:        bot,
		store:      store,
		mailer:     mailer,
		secret:     secret,
		allowed:    allowed,
		authorized: make(map[int64]struct{}),
		pending:    make(map[int64]*pendingAction),
	}
}

// HandleUpdate разбирает одно обновление Telegram. Заслон от паник
// стоит уровнем выше, в диспетчере бота.
func (c *Console) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.CallbackQuery != nil:
		c.handleCallback(ctx, upd.CallbackQuery)
	case upd.Message != nil:
		c.handleMessage(ctx, upd.Message)
	}
}

func (c *Console) isAllowed(chatID int64) bool {
	_, ok := c.allowed[chatID]
	return ok
}

// AllowedChat сообщает, входит ли чат в список допуска. Диспетчер
// бота по нему решает, заводить ли чату постоянный воркер.
func (c *Console) AllowedChat(chatID int64) bool {
	return c.isAllowed(chatID)
}

func (c *Console) isAuthorized(chatID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.authorized[chatID]
	return ok
}

func (c *Console) authorize(chatID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authorized[chatID] = struct{}{}
}

func (c *Console) setPending(chatID int64, p *pendingAction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p == nil {
		delete(c.pending, chatID)
		return
	}
	c.pending[chatID] = p
}

func (c *Console) getPending(chatID int64) *pendingAction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending[chatID]
}

func (c *Console) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := c.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

// replyMenu отправляет текст вместе с клавиатурой главного меню.
func (c *Console) replyMenu(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = menuKeyboard()
	if _, err := c.bot.Send(msg); err != nil {
		log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки сообщения")
	}
}

func (c *Console) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	// Чаты вне списка допуска навсегда остаются на этапе пароля:
	// любой их ввод, включая верный пароль, получает тот же ответ,
	// что и неверный пароль. Снаружи список допуска неразличим.
	if !c.isAllowed(chatID) {
		log.WithField("chat_id", chatID).Debug("Сообщение из постороннего чата")
		c.handlePassword(chatID, text, false)
		return
	}

	if !c.isAuthorized(chatID) {
		c.handlePassword(chatID, text, true)
		return
	}

	// Повторный верный пароль безвреден: просто показать меню ещё раз.
	if subtle.ConstantTimeCompare([]byte(text), []byte(c.secret)) == 1 {
		c.replyMenu(chatID, "You are already logged in.")
		return
	}

	if cmd, ok := canonicalCommand(text); ok {
		c.handleCommand(ctx, chatID, cmd)
		return
	}

	if p := c.getPending(chatID); p != nil {
		c.advancePending(ctx, chatID, p, text)
		return
	}

	c.reply(chatID, "Unknown input. Use /help for the list of commands.")
}

// handlePassword сверяет пароль постоянным по времени сравнением.
// Любой неверный ввод заканчивается повторным запросом пароля.
// Сравнение выполняется и для недопущенных чатов, чтобы ответ не
// выдавал членство в списке допуска временем.
func (c *Console) handlePassword(chatID int64, text string, allowed bool) {
	if text == "/start" {
		c.reply(chatID, "Moderation console. Enter the password.")
		return
	}
	match := subtle.ConstantTimeCompare([]byte(text), []byte(c.secret)) == 1
	if match && allowed {
		c.authorize(chatID)
		log.WithField("chat_id", chatID).Info("Чат авторизован в консоли модерации")
		c.replyMenu(chatID, "Access granted. Choose an action or use /help.")
		return
	}
	if match {
		log.WithField("chat_id", chatID).Warn("Верный пароль из недопущенного чата")
	} else {
		log.WithField("chat_id", chatID).Warn("Неверный пароль консоли")
	}
	c.reply(chatID, "Wrong password. Enter the password.")
}

// canonicalCommand переводит слэш-команды и кнопки меню к единому виду.
func canonicalCommand(text string) (string, bool) {
	if strings.HasPrefix(text, "/") {
		return strings.Fields(text)[0], true
	}
	switch {
	case strings.EqualFold(text, btnBanStory):
		return "/ban_story", true
	case strings.EqualFold(text, btnWarnUser):
		return "/warn_user", true
	case strings.EqualFold(text, btnRequestEdit):
		return "/request_edit", true
	case strings.EqualFold(text, btnListReports):
		return "/reports", true
	case strings.EqualFold(text, btnMainMenu):
		return "/menu", true
	}
	return "", false
}

func (c *Console) handleCommand(ctx context.Context, chatID int64, cmd string) {
	// Любая команда сбрасывает незавершённое действие: модератор
	// передумал.
	if cmd != "/cancel" {
		c.setPending(chatID, nil)
	}

	switch cmd {
	case "/start", "/help":
		c.replyMenu(chatID, helpText)
	case "/menu":
		c.replyMenu(chatID, "Main menu.")
	case "/reports":
		c.listReports(ctx, chatID)
	case "/ban_story":
		c.setPending(chatID, &pendingAction{kind: actionBanStory, stage: stageAwaitingTarget})
		c.reply(chatID, "Send the story id to ban.")
	case "/warn_user":
		c.setPending(chatID, &pendingAction{kind: actionWarnUser, stage: stageAwaitingTarget})
		c.reply(chatID, "Send the user id to warn.")
	case "/request_edit":
		c.setPending(chatID, &pendingAction{kind: actionRequestEdit, stage: stageAwaitingTarget})
		c.reply(chatID, "Send the story id that needs edits.")
	case "/cancel":
		if c.getPending(chatID) == nil {
			c.reply(chatID, "Nothing to cancel.")
			return
		}
		c.setPending(chatID, nil)
		c.replyMenu(chatID, "Action cancelled.")
	default:
		c.reply(chatID, "Unknown command. Use /help.")
	}
}

const helpText = `Moderation console commands:
/reports — recent reports with quick actions
/ban_story — delete a story with all its content
/warn_user — send a warning email to a user
/request_edit — ask a story author to edit the story
/cancel — abort the current action
The menu buttons below do the same thing.`

// advancePending двигает незавершённое действие по этапам:
// цель, затем причина, затем исполнение.
func (c *Console) advancePending(ctx context.Context, chatID int64, p *pendingAction, text string) {
	switch p.stage {
	case stageAwaitingTarget:
		id, err := strconv.ParseInt(text, 10, 64)
		if err != nil || id <= 0 {
			c.reply(chatID, "Expected a numeric id. Try again or /cancel.")
			return
		}
		p.targetID = id
		p.stage = stageAwaitingReason
		c.setPending(chatID, p)
		c.reply(chatID, "Now send the reason.")
	case stageAwaitingReason:
		reason := strings.TrimSpace(text)
		if reason == "" {
			c.reply(chatID, "Reason cannot be empty. Try again or /cancel.")
			return
		}
		if len(reason) > maxReasonLen {
			c.reply(chatID, fmt.Sprintf("Reason is limited to %d characters. Try again or /cancel.", maxReasonLen))
			return
		}
		c.setPending(chatID, nil)
		c.execute(ctx, chatID, p.kind, p.targetID, reason)
	}
}

// handleCallback обрабатывает нажатия кнопок под списком жалоб.
// Данные кнопки имеют вид action:id; нажатие переводит чат сразу
// к вводу причины.
func (c *Console) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	// Кнопку надо погасить в любом случае, иначе клиент крутит
	// спиннер.
	if _, err := c.bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.WithError(err).Debug("Ошибка ответа на callback")
	}

	if !c.isAllowed(chatID) || !c.isAuthorized(chatID) {
		return
	}

	action, rawID, ok := strings.Cut(cb.Data, ":")
	if !ok {
		return
	}
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return
	}

	var kind actionKind
	switch action {
	case "ban_story":
		kind = actionBanStory
	case "ban_user":
		kind = actionWarnUser
	case "request_edit":
		kind = actionRequestEdit
	default:
		return
	}

	c.setPending(chatID, &pendingAction{kind: kind, stage: stageAwaitingReason, targetID: id})
	c.reply(chatID, fmt.Sprintf("Action %s for id %d. Now send the reason.", kind, id))
}

// listReports выводит последние жалобы, каждую со своими кнопками.
func (c *Console) listReports(ctx context.Context, chatID int64) {
	list, err := c.store.RecentReports(ctx, reportsLimit)
	if err != nil {
		log.WithError(err).Error("Ошибка выборки жалоб для консоли")
		c.reply(chatID, "Failed to load reports.")
		return
	}
	if len(list) == 0 {
		c.reply(chatID, "No reports.")
		return
	}

	for _, rep := range list {
		msg := tgbotapi.NewMessage(chatID, renderReport(rep))
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Ban story", fmt.Sprintf("ban_story:%d", rep.StoryID)),
				tgbotapi.NewInlineKeyboardButtonData("Warn author", fmt.Sprintf("ban_user:%d", rep.StoryAuthorID)),
				tgbotapi.NewInlineKeyboardButtonData("Request edit", fmt.Sprintf("request_edit:%d", rep.StoryID)),
			),
		)
		if _, err := c.bot.Send(msg); err != nil {
			log.WithError(err).WithField("chat_id", chatID).Error("Ошибка отправки жалобы в чат")
		}
	}
}

func renderReport(rep *reports.Report) string {
	text := fmt.Sprintf("Report #%d\nStory #%d: %s\nAuthor: %s (#%d)\nBy: %s\nReason: %s",
		rep.ID, rep.StoryID, rep.StoryTitle, rep.StoryAuthorLogin, rep.StoryAuthorID,
		rep.ReporterLogin, rep.Reason)
	if rep.Details != "" {
		text += "\nDetails: " + rep.Details
	}
	return text + "\nAt: " + rep.CreatedAt.Format("2006-01-02 15:04")
}

// NotifyNewReport — реализация уведомителя жалоб: новая жалоба уходит
// во все допущенные чаты.
func (c *Console) NotifyNewReport(rep *reports.Report) {
	text := fmt.Sprintf("New report #%d\nStory #%d: %s\nAuthor: %s (#%d)\nBy: %s\nReason: %s",
		rep.ID, rep.StoryID, rep.StoryTitle, rep.StoryAuthorLogin, rep.StoryAuthorID,
		rep.ReporterLogin, rep.Reason)
	if rep.Details != "" {
		text += "\nDetails: " + rep.Details
	}
	c.Broadcast(text)
}

// Broadcast рассылает текст во все допущенные чаты.
func (c *Console) Broadcast(text string) {
	for chatID := range c.allowed {
		c.reply(chatID, text)
	}
}
