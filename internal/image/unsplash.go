package image

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/kovalyov-valentin/trendwise/internal/metrics"
)

// Картинка по умолчанию, когда ничего не нашли
const DefaultImageURL = "https://images.unsplash.com/photo-1506744038136-46273834b3fb?auto=format&fit=crop&w=800&q=80"

const defaultEndpoint = "https://api.unsplash.com/photos/random"

type Resolver interface {
	Resolve(ctx context.Context, topic string) string
}

// Поиск картинки к теме через Unsplash. Resolve никогда не падает.
type UnsplashResolver struct {
	accessKey string
	endpoint  string
	client    *http.Client
}

func NewUnsplashResolver(accessKey string, timeout time.Duration) *UnsplashResolver {
	return &UnsplashResolver{
		accessKey: accessKey,
		endpoint:  defaultEndpoint,
		client:    &http.Client{Timeout: timeout},
	}
}

type unsplashPhoto struct {
	URLs struct {
		Regular string `json:"regular"`
	} `json:"urls"`
}

func (r *UnsplashResolver) Resolve(ctx context.Context, topic string) string {
	if r.accessKey == "" {
		metrics.ImageFallbacks.WithLabelValues("no_key").Inc()
		return DefaultImageURL
	}

	imageURL, err := r.fetch(ctx, topic)
	if err != nil {
		slog.Warn("image resolution failed, using default", "topic", topic, "error", err)
		metrics.ImageFallbacks.WithLabelValues("error").Inc()
		return DefaultImageURL
	}

	if imageURL == "" {
		metrics.ImageFallbacks.WithLabelValues("empty").Inc()
		return DefaultImageURL
	}

	return imageURL
}

func (r *UnsplashResolver) fetch(ctx context.Context, topic string) (string, error) {
	q := url.Values{}
	q.Set("query", topic)
	q.Set("orientation", "landscape")
	q.Set("client_id", r.accessKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept-Version", "v1")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	var photo unsplashPhoto
	if err := json.NewDecoder(resp.Body).Decode(&photo); err != nil {
		return "", fmt.Errorf("decode photo: %w", err)
	}

	return photo.URLs.Regular, nil
}
