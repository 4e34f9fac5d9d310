package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/kovalyov-valentin/trendwise/internal/botkit"
	"github.com/kovalyov-valentin/trendwise/internal/botkit/markup"
	"github.com/kovalyov-valentin/trendwise/internal/model"
	"github.com/kovalyov-valentin/trendwise/internal/storage"
)

type ArticleGenerator interface {
	Generate(ctx context.Context, topic string) (model.Article, error)
}

// ViewCmdGenerate запускает генерацию статьи по теме из аргументов команды
func ViewCmdGenerate(generator ArticleGenerator, baseURL string) botkit.ViewFunc {
	type generateArgs struct {
		Topic string `json:"topic"`
	}

	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		args, err := botkit.ParseJSON[generateArgs](update.Message.CommandArguments())
		if err != nil || strings.TrimSpace(args.Topic) == "" {
			return reply(bot, update, "Использование: /generate {\"topic\": \"AI Trends\"}", "")
		}

		article, err := generator.Generate(ctx, args.Topic)
		if errors.Is(err, storage.ErrDuplicateSlug) {
			return reply(bot, update, "Статья на эту тему уже есть", "")
		}
		if err != nil {
			return err
		}

		return reply(bot, update, fmt.Sprintf(
			"Статья готова: *%s*\n%s",
			markup.EscapeForMarkdown(article.Title),
			markup.EscapeForMarkdown(articleURL(baseURL, article.Slug)),
		), tgbotapi.ModeMarkdownV2)
	}
}

func reply(bot *tgbotapi.BotAPI, update tgbotapi.Update, text, parseMode string) error {
	msg := tgbotapi.NewMessage(update.Message.Chat.ID, text)
	msg.ParseMode = parseMode

	_, err := bot.Send(msg)
	return err
}
