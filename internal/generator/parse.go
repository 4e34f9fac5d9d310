package generator

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/kovalyov-valentin/trendwise/internal/metrics"
	"github.com/kovalyov-valentin/trendwise/internal/model"
	"github.com/kovalyov-valentin/trendwise/internal/slug"
)

// Заглушка картинки для синтезированного черновика
const PlaceholderImageURL = "https://images.unsplash.com/photo-1504711434969-e33886168f5c?w=1200&h=630&fit=crop"

// Результат разбора ответа модели: либо ParsedDraft, либо RawText
type Completion interface {
	completion()
}

type ParsedDraft struct {
	Draft model.Draft
}

type RawText struct {
	Text string
}

func (ParsedDraft) completion() {}
func (RawText) completion()     {}

// ParseCompletion пытается достать JSON черновик из ответа модели.
// Модели часто оборачивают JSON в ```json блоки или пишут текст вокруг него,
// поэтому берем подстроку от первой { до последней }.
func ParseCompletion(raw string) Completion {
	text := strings.TrimSpace(raw)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return RawText{Text: raw}
	}

	var draft model.Draft
	if err := json.Unmarshal([]byte(text[start:end+1]), &draft); err != nil {
		return RawText{Text: raw}
	}

	if strings.TrimSpace(draft.Title) == "" || strings.TrimSpace(draft.Content) == "" {
		return RawText{Text: raw}
	}

	return ParsedDraft{Draft: draft}
}

// DraftFromCompletion возвращает черновик для любого варианта разбора
func DraftFromCompletion(topic string, c Completion) model.Draft {
	switch v := c.(type) {
	case ParsedDraft:
		return v.Draft
	case RawText:
		metrics.DraftFallbacks.Inc()
		return FallbackDraft(topic, v.Text)
	default:
		return FallbackDraft(topic, "")
	}
}

// FallbackDraft собирает минимальный черновик, когда ответ не удалось разобрать
func FallbackDraft(topic, raw string) model.Draft {
	s := slug.Make(topic)

	return model.Draft{
		Title:           "Latest Trends: " + topic,
		Slug:            s,
		MetaDescription: BoilerplateDescription(topic),
		Content:         fmt.Sprintf("<h2>%s</h2><p>%s</p>", html.EscapeString(topic), raw),
		OgImage:         PlaceholderImageURL,
		Tags:            []string{s},
	}
}

func BoilerplateDescription(topic string) string {
	return fmt.Sprintf(
		"Discover the latest trends and insights about %s. Stay updated with comprehensive analysis and expert opinions.",
		topic,
	)
}
