package handlers

import (
	"bytes"
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Wrap превращает CommandFunc в обработчик go-telegram/bot: разбирает аргументы и отправляет ответ
func (h *Handlers) Wrap(fn CommandFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}

		chatID := update.Message.Chat.ID
		reply := fn(ctx, chatID, commandArgs(update.Message.Text))

		if len(reply.Photo) > 0 {
			h.sendPhoto(ctx, b, chatID, reply.Photo, reply.Text)
			return
		}
		h.sendMessage(ctx, b, chatID, reply.Text)
	}
}

// commandArgs отрезает "/command" (и "@botname") от текста сообщения
func commandArgs(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	_, args, _ := strings.Cut(text, " ")
	return strings.TrimSpace(args)
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if text == "" {
		return
	}
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// sendPhoto отправляет PNG с подписью
func (h *Handlers) sendPhoto(ctx context.Context, b *bot.Bot, chatID int64, data []byte, caption string) {
	_, err := b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  chatID,
		Photo:   &models.InputFileUpload{Filename: "schedule.png", Data: bytes.NewReader(data)},
		Caption: caption,
	})
	if err != nil {
		h.logger.Error("Failed to send photo",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}
