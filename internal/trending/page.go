package trending

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/kovalyov-valentin/trendwise/internal/model"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// Тренды со страницы: каждый элемент по CSS селектору становится темой.
// Это не краулер, а одна страница с лимитом на количество тем.
type PageBackend struct {
	url      string
	selector string
	maxItems int
	client   *http.Client
}

func NewPageBackend(url, selector string, timeout time.Duration) *PageBackend {
	return &PageBackend{
		url:      url,
		selector: selector,
		maxItems: 10,
		client:   &http.Client{Timeout: timeout},
	}
}

func (b *PageBackend) Name() string {
	return "page"
}

func (b *PageBackend) Fetch(ctx context.Context) ([]model.TrendingTopic, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d for %q", resp.StatusCode, b.url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	var topics []model.TrendingTopic
	doc.Find(b.selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		title := strings.Join(strings.Fields(s.Text()), " ")
		if title == "" {
			return true
		}

		href, _ := s.Attr("href")
		topics = append(topics, model.TrendingTopic{
			Title:       title,
			Description: fmt.Sprintf("Trending topic #%d", len(topics)+1),
			URL:         href,
			Category:    "trending",
		})

		return len(topics) < b.maxItems
	})

	if len(topics) == 0 {
		return nil, fmt.Errorf("no elements matched %q", b.selector)
	}

	return topics, nil
}

func (b *PageBackend) Fallback() []model.TrendingTopic {
	return []model.TrendingTopic{
		{Title: "AI in healthcare", Category: "technology"},
		{Title: "Sustainable technology trends", Category: "environment"},
		{Title: "Quantum computing progress", Category: "technology"},
		{Title: "Green energy solutions", Category: "environment"},
		{Title: "5G technology impact", Category: "technology"},
	}
}
