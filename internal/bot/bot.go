// Package bot — приём обновлений Telegram и раздача их консоли
// модерации. Обновления одного чата обрабатываются строго по порядку,
// разные чаты — параллельно.
package bot

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"fictionhub/internal/bot/middleware"
	"fictionhub/internal/moderation"
)

// Размер очереди обновлений одного чата.
const chatQueueSize = 32

// Bot — цикл получения обновлений и диспетчер по чатам.
type Bot struct {
	api           *tgbotapi.BotAPI
	console       *moderation.Console
	updateTimeout int

	mu      sync.Mutex
	workers map[int64]chan tgbotapi.Update
	wg      sync.WaitGroup
}

// New создаёт бота поверх готового API-клиента и консоли.
func New(api *tgbotapi.BotAPI, console *moderation.Console, updateTimeout int) *Bot {
	return &Bot{
		api:           api,
		console:       console,
		updateTimeout: updateTimeout,
		workers:       make(map[int64]chan tgbotapi.Update),
	}
}

// Start запускает polling и блокируется до отмены контекста. На выходе
// дожидается, пока воркеры чатов доработают свои очереди.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.updateTimeout

	updates := b.api.GetUpdatesChan(u)

	log.WithField("timeout_sec", b.updateTimeout).Info("Бот запущен и ожидает сообщения...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Бот останавливается (ctx done)...")
			b.api.StopReceivingUpdates()
			b.shutdown()
			return

		case update, ok := <-updates:
			if !ok {
				log.Info("Канал updates закрыт, бот остановлен")
				b.shutdown()
				return
			}
			middleware.LogUpdate(update)
			b.dispatch(ctx, update)
		}
	}
}

// dispatch кладёт обновление в очередь его чата, заводя воркер при
// первом обращении. Воркеры и очереди получают только чаты из списка
// допуска: публичному боту может написать сколько угодно посторонних
// чатов, и постоянный воркер на каждый из них — утечка. Посторонние
// обрабатываются на месте: их ответ не зависит от состояния, порядок
// им не нужен. Переполненная очередь роняет обновление, а не весь
// приём.
func (b *Bot) dispatch(ctx context.Context, upd tgbotapi.Update) {
	chatID, ok := chatOf(upd)
	if !ok {
		return
	}

	if !b.console.AllowedChat(chatID) {
		b.handle(ctx, upd)
		return
	}

	b.mu.Lock()
	queue, exists := b.workers[chatID]
	if !exists {
		queue = make(chan tgbotapi.Update, chatQueueSize)
		b.workers[chatID] = queue
		b.wg.Add(1)
		go b.worker(ctx, chatID, queue)
	}
	b.mu.Unlock()

	select {
	case queue <- upd:
	default:
		log.WithField("chat_id", chatID).Warn("Очередь чата переполнена, обновление отброшено")
	}
}

// worker разбирает очередь одного чата по порядку.
func (b *Bot) worker(ctx context.Context, chatID int64, queue <-chan tgbotapi.Update) {
	defer b.wg.Done()
	for upd := range queue {
		b.handle(ctx, upd)
	}
	log.WithField("chat_id", chatID).Debug("Воркер чата остановлен")
}

func (b *Bot) handle(ctx context.Context, upd tgbotapi.Update) {
	defer middleware.RecoverFromPanic()
	b.console.HandleUpdate(ctx, upd)
}

// shutdown закрывает очереди и ждёт воркеров.
func (b *Bot) shutdown() {
	b.mu.Lock()
	for _, queue := range b.workers {
		close(queue)
	}
	b.mu.Unlock()
	b.wg.Wait()
}

// chatOf достаёт идентификатор чата из обновления.
func chatOf(upd tgbotapi.Update) (int64, bool) {
	switch {
	case upd.Message != nil:
		return upd.Message.Chat.ID, true
	case upd.CallbackQuery != nil && upd.CallbackQuery.Message != nil:
		return upd.CallbackQuery.Message.Chat.ID, true
	default:
		return 0, false
	}
}
