package image

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/kovalyov-valentin/trendwise/internal/slug"
	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "trendwise:image:"

// Кэш найденных картинок в Redis поверх другого Resolver.
// Картинку по умолчанию не кэшируем, чтобы следующая попытка могла найти настоящую.
type CachedResolver struct {
	next   Resolver
	client *redis.Client
	ttl    time.Duration
}

func NewCachedResolver(next Resolver, client *redis.Client, ttl time.Duration) *CachedResolver {
	return &CachedResolver{
		next:   next,
		client: client,
		ttl:    ttl,
	}
}

func (c *CachedResolver) Resolve(ctx context.Context, topic string) string {
	key := cacheKeyPrefix + slug.Make(topic)

	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil && cached != "":
		return cached
	case err != nil && !errors.Is(err, redis.Nil):
		slog.Warn("image cache read failed", "key", key, "error", err)
	}

	imageURL := c.next.Resolve(ctx, topic)
	if imageURL == DefaultImageURL {
		return imageURL
	}

	if err := c.client.Set(ctx, key, imageURL, c.ttl).Err(); err != nil {
		slog.Warn("image cache write failed", "key", key, "error", err)
	}

	return imageURL
}
