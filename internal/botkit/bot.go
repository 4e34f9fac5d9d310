package botkit

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const defaultUpdateTimeout = 5 * time.Second

type Bot struct {
	// Инстанс апи телеграма
	api *tgbotapi.BotAPI
	// View по имени команды
	cmdViews map[string]ViewFunc
	// Сколько времени даем одной view на обработку
	updateTimeout time.Duration
}

// ViewFunc реагирует на одну команду. Update это любой эвент от телеграма,
// bot это клиент, через который view отвечает пользователю.
type ViewFunc func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error

func New(api *tgbotapi.BotAPI, updateTimeout time.Duration) *Bot {
	if updateTimeout <= 0 {
		updateTimeout = defaultUpdateTimeout
	}

	return &Bot{
		api:           api,
		cmdViews:      make(map[string]ViewFunc),
		updateTimeout: updateTimeout,
	}
}

// Метод для регистрации View для команды
func (b *Bot) RegisterCmdView(cmd string, view ViewFunc) {
	b.cmdViews[cmd] = view
}

func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case update := <-updates:
			updateCtx, updateCancel := context.WithTimeout(ctx, b.updateTimeout)
			b.handleUpdate(updateCtx, update)
			updateCancel()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Роутит команду на соответствующую view
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	// Паника в view не должна ронять бота
	defer func() {
		if p := recover(); p != nil {
			slog.Error("panic recovered in bot view", "panic", p, "stack", string(debug.Stack()))
		}
	}()

	if update.Message == nil || !update.Message.IsCommand() {
		return
	}

	view, ok := b.cmdViews[update.Message.Command()]
	if !ok {
		return
	}

	if err := view(ctx, b.api, update); err != nil {
		slog.Error("failed to handle update", "command", update.Message.Command(), "error", err)

		if _, err := b.api.Send(
			tgbotapi.NewMessage(update.Message.Chat.ID, "internal error"),
		); err != nil {
			slog.Error("failed to send message", "error", err)
		}
	}
}
