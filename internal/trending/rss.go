package trending

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SlyMarbo/rss"
	"github.com/kovalyov-valentin/trendwise/internal/model"
)

// Тренды из RSS ленты, по умолчанию ежедневные тренды Google
type RSSBackend struct {
	URL      string
	Category string
	// Сколько элементов ленты берем
	MaxItems int

	client *http.Client
}

func NewRSSBackend(url string, timeout time.Duration) RSSBackend {
	return RSSBackend{
		URL:      url,
		Category: "trending",
		MaxItems: 10,
		client:   &http.Client{Timeout: timeout},
	}
}

func (b RSSBackend) Name() string {
	return "rss"
}

func (b RSSBackend) Fetch(ctx context.Context) ([]model.TrendingTopic, error) {
	feed, err := b.loadFeed(ctx, b.URL)
	if err != nil {
		return nil, err
	}

	var topics []model.TrendingTopic
	for _, item := range feed.Items {
		if len(topics) >= b.MaxItems {
			break
		}

		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}

		category := b.Category
		if len(item.Categories) > 0 {
			category = item.Categories[0]
		}

		topics = append(topics, model.TrendingTopic{
			Title:       title,
			Description: strings.TrimSpace(item.Summary),
			URL:         item.Link,
			Category:    category,
		})
	}

	return topics, nil
}

// Запрос привязан к ctx и отменяется вместе с ним
func (b RSSBackend) loadFeed(ctx context.Context, url string) (*rss.Feed, error) {
	client := b.client
	if client == nil {
		client = http.DefaultClient
	}

	return rss.FetchByFunc(func(url string) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		return resp, nil
	}, url)
}

func (b RSSBackend) Fallback() []model.TrendingTopic {
	return []model.TrendingTopic{
		{Title: "Artificial Intelligence", Description: "AI technology trends", Category: "technology"},
		{Title: "Climate Change", Description: "Environmental awareness", Category: "environment"},
		{Title: "Remote Work", Description: "Work from home trends", Category: "business"},
		{Title: "Cryptocurrency", Description: "Digital currency trends", Category: "finance"},
		{Title: "Mental Health", Description: "Wellness and mindfulness", Category: "health"},
	}
}
