package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/kovalyov-valentin/trendwise/internal/botkit"
	"github.com/kovalyov-valentin/trendwise/internal/botkit/markup"
	"github.com/kovalyov-valentin/trendwise/internal/model"
	"github.com/kovalyov-valentin/trendwise/internal/storage"
	"github.com/samber/lo"
)

const latestLimit = 5

type ArticleLister interface {
	Articles(ctx context.Context, filter storage.ArticleFilter) ([]model.Article, error)
}

func ViewCmdLatest(lister ArticleLister, baseURL string) botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		articles, err := lister.Articles(ctx, storage.ArticleFilter{
			Sort:  storage.SortNewest,
			Limit: latestLimit,
		})
		if err != nil {
			return err
		}

		if len(articles) == 0 {
			_, err := bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Статей пока нет"))
			return err
		}

		var (
			articleInfos = lo.Map(articles, func(article model.Article, _ int) string {
				return formatArticle(article, baseURL)
			})
			msgText = fmt.Sprintf(
				"Последние статьи \\(%d\\):\n\n%s",
				len(articles),
				strings.Join(articleInfos, "\n\n"),
			)
		)

		reply := tgbotapi.NewMessage(update.Message.Chat.ID, msgText)
		reply.ParseMode = tgbotapi.ModeMarkdownV2

		if _, err := bot.Send(reply); err != nil {
			return err
		}
		return nil
	}
}

func formatArticle(article model.Article, baseURL string) string {
	return fmt.Sprintf(
		"📰 *%s*\n%s",
		markup.EscapeForMarkdown(article.Title),
		markup.EscapeForMarkdown(articleURL(baseURL, article.Slug)),
	)
}

func articleURL(baseURL, slug string) string {
	return strings.TrimRight(baseURL, "/") + "/article/" + slug
}
