package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/go-shiori/go-readability"
	"github.com/kovalyov-valentin/trendwise/internal/assembler"
	"github.com/kovalyov-valentin/trendwise/internal/botkit/markup"
	"github.com/kovalyov-valentin/trendwise/internal/model"
)

// Длина выдержки из статьи в сообщении
const excerptLen = 400

// Интервал отправки, если в конфиге задан нулевой или отрицательный
const defaultSendInterval = time.Minute

type ArticleProvider interface {
	AllNotPosted(ctx context.Context, since time.Time, limit uint64) ([]model.Article, error)
	MarkPosted(ctx context.Context, id string) error
}

// Sender это часть tgbotapi.BotAPI, которая нужна notifier
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Notifier struct {
	// Провайдер для статей
	articles ArticleProvider
	// Клиент телеграма
	bot Sender
	// Интервал, с которым notifier будет проверять есть ли новые статьи
	sendInterval time.Duration
	// Насколько далеко в прошлое смотрим в поисках неотправленных статей
	lookupTimeWindow time.Duration
	// Публичный адрес сайта для ссылки на статью
	baseURL string
	// id канала куда мы будем постить статьи
	channelID int64
}

func New(
	articleProvider ArticleProvider,
	bot Sender,
	sendInterval time.Duration,
	lookupTimeWindow time.Duration,
	baseURL string,
	channelID int64,
) *Notifier {
	if sendInterval <= 0 {
		sendInterval = defaultSendInterval
	}

	return &Notifier{
		articles:         articleProvider,
		bot:              bot,
		sendInterval:     sendInterval,
		lookupTimeWindow: lookupTimeWindow,
		baseURL:          strings.TrimRight(baseURL, "/"),
		channelID:        channelID,
	}
}

func (n *Notifier) Start(ctx context.Context) error {
	ticker := time.NewTicker(n.sendInterval)
	defer ticker.Stop()

	if err := n.SelectAndSendArticle(ctx); err != nil {
		slog.Error("announce article", "error", err)
	}

	for {
		select {
		case <-ticker.C:
			if err := n.SelectAndSendArticle(ctx); err != nil {
				slog.Error("announce article", "error", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// SelectAndSendArticle отправляет в канал одну самую свежую неотправленную статью
func (n *Notifier) SelectAndSendArticle(ctx context.Context) error {
	topOneArticles, err := n.articles.AllNotPosted(ctx, time.Now().Add(-n.lookupTimeWindow), 1)
	if err != nil {
		return fmt.Errorf("select not posted articles: %w", err)
	}

	// Если нет статьи, то ничего не делаем
	if len(topOneArticles) == 0 {
		return nil
	}

	article := topOneArticles[0]

	if err := n.sendArticle(article, n.excerpt(article)); err != nil {
		return fmt.Errorf("send article %s: %w", article.Slug, err)
	}

	// После того, как все получилось, отмечаем статью, как запощенную
	return n.articles.MarkPosted(ctx, article.ID)
}

// Краткая выдержка: текст статьи без разметки, а если его не удалось
// достать, то meta description
func (n *Notifier) excerpt(article model.Article) string {
	doc, err := readability.FromReader(strings.NewReader(article.Content), n.parseURL(article))
	if err != nil || strings.TrimSpace(doc.TextContent) == "" {
		return article.MetaDescription
	}

	return assembler.Truncate(cleanText(doc.TextContent), excerptLen)
}

func (n *Notifier) ArticleURL(article model.Article) string {
	return n.baseURL + "/article/" + article.Slug
}

func (n *Notifier) parseURL(article model.Article) *url.URL {
	u, err := url.Parse(n.ArticleURL(article))
	if err != nil {
		return nil
	}
	return u
}

// Метод отправки статьи
func (n *Notifier) sendArticle(article model.Article, excerpt string) error {
	// Сначала идет жирным заголовок, потом выдержка, потом ссылка на статью
	const msgFormat = "*%s*\n\n%s\n\n%s"

	msg := tgbotapi.NewMessage(n.channelID, fmt.Sprintf(
		msgFormat,
		markup.EscapeForMarkdown(article.Title),
		markup.EscapeForMarkdown(excerpt),
		markup.EscapeForMarkdown(n.ArticleURL(article)),
	))
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	if _, err := n.bot.Send(msg); err != nil {
		return err
	}

	return nil
}

// readability оставляет много пустых строк, схлопываем их
var redundantNewLines = regexp.MustCompile(`\n{3,}`)

func cleanText(text string) string {
	return strings.TrimSpace(redundantNewLines.ReplaceAllString(text, "\n"))
}
