package moderation

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// execute выполняет собранное действие. Ошибка самого действия
// сообщается модератору; ошибка письма — нет: письмо лучшее из
// возможного, но не обязательство.
func (c *Console) execute(ctx context.Context, chatID int64, kind actionKind, targetID int64, reason string) {
	switch kind {
	case actionBanStory:
		c.banStory(ctx, chatID, targetID, reason)
	case actionWarnUser:
		c.warnUser(ctx, chatID, targetID, reason)
	case actionRequestEdit:
		c.requestEdit(ctx, chatID, targetID, reason)
	}
}

// banStory удаляет историю со всем содержимым и пишет автору письмо.
// Сначала каскадное удаление одной транзакцией, письмо потом: если
// удаление не прошло, автора не о чем извещать.
func (c *Console) banStory(ctx context.Context, chatID, storyID int64, reason string) {
	story, err := c.store.GetStory(ctx, storyID)
	if err != nil {
		log.WithError(err).WithField("story_id", storyID).Warn("История для бана не найдена")
		c.reply(chatID, fmt.Sprintf("Story %d not found.", storyID))
		return
	}

	if err := c.store.DeleteStoryCascade(ctx, storyID); err != nil {
		log.WithError(err).WithField("story_id", storyID).Error("Ошибка каскадного удаления истории")
		c.reply(chatID, fmt.Sprintf("Failed to delete story %d.", storyID))
		return
	}

	log.WithFields(log.Fields{
		"story_id": storyID,
		"chat_id":  chatID,
	}).Info("История удалена модератором")

	if author, err := c.store.GetUser(ctx, story.AuthorID); err != nil {
		log.WithError(err).WithField("user_id", story.AuthorID).Warn("Автор удалённой истории не найден")
	} else if author.Email == "" {
		log.WithField("user_id", story.AuthorID).Warn("У автора удалённой истории нет почты")
	} else {
		subject := "Your story has been removed"
		body := fmt.Sprintf("Your story %q was removed by the moderators.\n\nReason: %s", story.Title, reason)
		if err := c.mailer.Send(ctx, author.Email, subject, body); err != nil {
			log.WithError(err).WithField("email", author.Email).Warn("Письмо автору удалённой истории не ушло")
		}
	}

	c.replyMenu(chatID, fmt.Sprintf("Story %d %q deleted.", storyID, story.Title))
}

// warnUser шлёт пользователю предупреждение почтой.
func (c *Console) warnUser(ctx context.Context, chatID, userID int64, reason string) {
	user, err := c.store.GetUser(ctx, userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Пользователь для предупреждения не найден")
		c.reply(chatID, fmt.Sprintf("User %d not found.", userID))
		return
	}

	if user.Email == "" {
		log.WithField("user_id", userID).Warn("У пользователя нет почты, предупреждение без письма")
		c.replyMenu(chatID, fmt.Sprintf("User %s warned (no email on file).", user.Login))
		return
	}

	subject := "Moderation warning"
	body := fmt.Sprintf("You have received a warning from the moderators.\n\nReason: %s", reason)
	if err := c.mailer.Send(ctx, user.Email, subject, body); err != nil {
		log.WithError(err).WithField("email", user.Email).Warn("Письмо с предупреждением не ушло")
		c.replyMenu(chatID, fmt.Sprintf("Warning for %s recorded, but the email failed.", user.Login))
		return
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"chat_id": chatID,
	}).Info("Пользователь предупреждён модератором")
	c.replyMenu(chatID, fmt.Sprintf("User %s warned.", user.Login))
}

// requestEdit просит автора истории поправить её.
func (c *Console) requestEdit(ctx context.Context, chatID, storyID int64, reason string) {
	story, err := c.store.GetStory(ctx, storyID)
	if err != nil {
		log.WithError(err).WithField("story_id", storyID).Warn("История для правки не найдена")
		c.reply(chatID, fmt.Sprintf("Story %d not found.", storyID))
		return
	}
	author, err := c.store.GetUser(ctx, story.AuthorID)
	if err != nil {
		log.WithError(err).WithField("user_id", story.AuthorID).Warn("Автор истории не найден")
		c.reply(chatID, fmt.Sprintf("Author of story %d not found.", storyID))
		return
	}

	if author.Email == "" {
		log.WithField("user_id", story.AuthorID).Warn("У автора истории нет почты, просьба о правке без письма")
		c.replyMenu(chatID, fmt.Sprintf("Edit request for story %d recorded (no email on file).", storyID))
		return
	}

	subject := "Please edit your story"
	body := fmt.Sprintf("The moderators ask you to edit your story %q.\n\nReason: %s", story.Title, reason)
	if err := c.mailer.Send(ctx, author.Email, subject, body); err != nil {
		log.WithError(err).WithField("email", author.Email).Warn("Письмо с просьбой о правке не ушло")
		c.replyMenu(chatID, fmt.Sprintf("Edit request for story %d recorded, but the email failed.", storyID))
		return
	}

	c.replyMenu(chatID, fmt.Sprintf("Edit request for story %d sent to %s.", storyID, author.Login))
}
