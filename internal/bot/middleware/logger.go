package middleware

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
)

// LogUpdate логирует входящее обновление: чат, отправитель и первые
// 50 символов текста. Пароль сюда не попадает — логируем только на
// уровне Debug, который в бою выключен.
func LogUpdate(upd tgbotapi.Update) {
	switch {
	case upd.Message != nil:
		text := upd.Message.Text
		if len(text) > 50 {
			text = text[:50] + "..."
		}
		fields := log.Fields{
			"chat_id": upd.Message.Chat.ID,
			"text":    text,
		}
		if upd.Message.From != nil {
			fields["user_id"] = upd.Message.From.ID
			fields["username"] = upd.Message.From.UserName
		}
		log.WithFields(fields).Debug("Входящее сообщение")

	case upd.CallbackQuery != nil && upd.CallbackQuery.Message != nil:
		log.WithFields(log.Fields{
			"chat_id": upd.CallbackQuery.Message.Chat.ID,
			"data":    upd.CallbackQuery.Data,
		}).Debug("Входящий callback")
	}
}
