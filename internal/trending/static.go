package trending

import (
	"context"

	"github.com/kovalyov-valentin/trendwise/internal/model"
)

// Фиксированный список тем, Fetch никогда не падает
type StaticBackend struct {
	name   string
	topics []model.TrendingTopic
}

func NewStaticBackend(name string, topics []model.TrendingTopic) StaticBackend {
	return StaticBackend{name: name, topics: topics}
}

// Темы, которые раньше брались из соцсетей
func NewSocialBackend() StaticBackend {
	return NewStaticBackend("social", []model.TrendingTopic{
		{Title: "Web Development", Description: "Latest in web technologies", Category: "technology"},
		{Title: "Machine Learning", Description: "AI and ML advancements", Category: "technology"},
		{Title: "Startup Culture", Description: "Entrepreneurship trends", Category: "business"},
		{Title: "Digital Marketing", Description: "Online marketing strategies", Category: "marketing"},
		{Title: "Cybersecurity", Description: "Digital security trends", Category: "technology"},
	})
}

func (b StaticBackend) Name() string {
	return b.name
}

func (b StaticBackend) Fetch(_ context.Context) ([]model.TrendingTopic, error) {
	return b.Fallback(), nil
}

func (b StaticBackend) Fallback() []model.TrendingTopic {
	out := make([]model.TrendingTopic, len(b.topics))
	copy(out, b.topics)
	return out
}
