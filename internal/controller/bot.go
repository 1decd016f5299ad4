package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/Freeeeeet/college_scheduler/internal/controller/handlers"
	"github.com/Freeeeeet/college_scheduler/internal/controller/state"
	"github.com/Freeeeeet/college_scheduler/internal/notify"
)

type BotController struct {
	bot           *bot.Bot
	handlers      *handlers.Handlers
	subscriptions *state.Subscriptions
	hub           *notify.Hub
	logger        *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	svc handlers.ScheduleService,
	hub *notify.Hub,
	logger *zap.Logger,
) *BotController {
	subscriptions := state.NewSubscriptions()

	return &BotController{
		bot:           botInstance,
		handlers:      handlers.NewHandlers(svc, subscriptions, logger),
		subscriptions: subscriptions,
		hub:           hub,
		logger:        logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	h := c.handlers

	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, h.Wrap(h.HandleStart))
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, h.Wrap(h.HandleHelp))
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/schedule", bot.MatchTypeExact, h.Wrap(h.HandleSchedule))
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/teachers", bot.MatchTypeExact, h.Wrap(h.HandleTeachers))
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/courses", bot.MatchTypeExact, h.Wrap(h.HandleCourses))
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/classes", bot.MatchTypeExact, h.Wrap(h.HandleClasses))
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/export", bot.MatchTypeExact, h.Wrap(h.HandleExport))

	// Команды с аргументами
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addteacher", bot.MatchTypePrefix, h.Wrap(h.HandleAddTeacher))
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addclass", bot.MatchTypePrefix, h.Wrap(h.HandleAddClass))
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addcourse", bot.MatchTypePrefix, h.Wrap(h.HandleAddCourse))
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addslot", bot.MatchTypePrefix, h.Wrap(h.HandleAddSlot))
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/delete", bot.MatchTypePrefix, h.Wrap(h.HandleDelete))

	// Уведомления
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/subscribe", bot.MatchTypeExact, h.Wrap(h.HandleSubscribe))
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/unsubscribe", bot.MatchTypeExact, h.Wrap(h.HandleUnsubscribe))

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "schedule", Description: "🗓 Расписание на неделю"},
		{Command: "export", Description: "🖼 Расписание картинкой"},
		{Command: "teachers", Description: "👩‍🏫 Преподаватели"},
		{Command: "courses", Description: "📚 Курсы"},
		{Command: "classes", Description: "🏫 Аудитории"},
		{Command: "subscribe", Description: "🔔 Сообщать об изменениях"},
		{Command: "unsubscribe", Description: "🔕 Не сообщать об изменениях"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("Bot commands menu set")
	return nil
}

// Start запускает рассылку уведомлений и long polling; блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")

	if c.hub != nil {
		events, cancel := c.hub.Subscribe()
		defer cancel()
		go c.relayChanges(ctx, events)
	}

	c.bot.Start(ctx)
	return nil
}

// relayChanges отправляет подписанным чатам сообщение о каждом изменении
func (c *BotController) relayChanges(ctx context.Context, events <-chan notify.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			text := changeText(ev.Scope)
			for _, chatID := range c.subscriptions.List() {
				_, err := c.bot.SendMessage(ctx, &bot.SendMessageParams{
					ChatID: chatID,
					Text:   text,
				})
				if err != nil {
					c.logger.Error("Failed to send change notification",
						zap.Int64("chat_id", chatID),
						zap.Error(err))
				}
			}
		}
	}
}

var scopeTitles = map[notify.Scope]string{
	notify.ScopeTeachers: "преподаватели",
	notify.ScopeCourses:  "курсы",
	notify.ScopeClasses:  "аудитории",
	notify.ScopeSchedule: "расписание",
}

// changeText текст уведомления со списком изменившихся коллекций
func changeText(scope notify.Scope) string {
	var parts []string
	for _, s := range []notify.Scope{notify.ScopeTeachers, notify.ScopeCourses, notify.ScopeClasses, notify.ScopeSchedule} {
		if scope.Has(s) {
			parts = append(parts, scopeTitles[s])
		}
	}
	return fmt.Sprintf("🔄 Обновлено: %s\n\nПосмотреть: /schedule", strings.Join(parts, ", "))
}
