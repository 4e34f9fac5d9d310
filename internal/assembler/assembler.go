// Пакет assembler превращает черновик от модели в статью,
// готовую к сохранению. Ввода-вывода здесь нет.
package assembler

import (
	"html"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/kovalyov-valentin/trendwise/internal/generator"
	"github.com/kovalyov-valentin/trendwise/internal/image"
	"github.com/kovalyov-valentin/trendwise/internal/model"
	"github.com/kovalyov-valentin/trendwise/internal/slug"
	"github.com/microcosm-cc/bluemonday"
	"github.com/samber/lo"
)

// Максимальная длина metaDescription в рунах
const MaxDescriptionLen = 150

type Assembler struct {
	now    func() time.Time
	policy *bluemonday.Policy
}

func New() *Assembler {
	return &Assembler{
		now:    time.Now,
		policy: bluemonday.UGCPolicy(),
	}
}

// Assemble собирает статью по теме из черновика и найденной картинки
func (a *Assembler) Assemble(topic string, draft model.Draft, imageURL string) model.Article {
	topic = strings.TrimSpace(topic)

	title := strings.TrimSpace(draft.Title)
	if title == "" {
		title = topic
	}
	if title == "" {
		title = "Latest Trends"
	}

	// Slug строим по теме, а не по ответу модели: одна и та же тема всегда дает
	// один и тот же slug, и повторная генерация упирается в уникальный индекс
	slugSource := topic
	if slugSource == "" {
		slugSource = title
	}

	content := strings.TrimSpace(a.policy.Sanitize(draft.Content))

	return model.Article{
		Title:           title,
		Slug:            slug.Make(slugSource),
		MetaDescription: describe(topic, draft.MetaDescription, content),
		Content:         content,
		OgImage:         pickImage(imageURL, draft.OgImage),
		Media:           model.Media{Images: []string{}, Videos: []string{}, Tweets: []string{}},
		Tags:            normalizeTags(topic, draft.Tags),
		Author:          model.SystemAuthor,
		PublishedAt:     a.now().UTC(),
	}
}

// Stub собирает статью-заглушку для темы, которую еще не сгенерировали
func (a *Assembler) Stub(topic, imageURL string) model.Article {
	topic = strings.TrimSpace(topic)
	escaped := html.EscapeString(topic)

	return a.Assemble(topic, model.Draft{
		Title:           "Latest Trends: " + topic,
		MetaDescription: generator.BoilerplateDescription(topic),
		Content:         "<h2>" + escaped + "</h2><p>Content about " + escaped + " will be generated soon...</p>",
		Tags:            []string{strings.ToLower(topic)},
	}, imageURL)
}

func describe(topic, supplied, content string) string {
	if d := collapseSpaces(supplied); d != "" {
		return Truncate(d, MaxDescriptionLen)
	}

	if text := PlainText(content); text != "" {
		return Truncate(text, MaxDescriptionLen)
	}

	return Truncate(generator.BoilerplateDescription(topic), MaxDescriptionLen)
}

// PlainText возвращает видимый текст HTML фрагмента со схлопнутыми пробелами
func PlainText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return collapseSpaces(fragment)
	}

	// Между блоками нет пробелов, без этого заголовок слипается с абзацем
	doc.Find("h1,h2,h3,h4,h5,h6,p,li,br,div").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})

	return collapseSpaces(doc.Text())
}

// Truncate обрезает s до max рун, по возможности на границе слова
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}

	runes := []rune(s)[:max]
	cut := string(runes)

	// Режем по последнему пробелу, если он не слишком далеко от конца
	if i := strings.LastIndexFunc(cut, unicode.IsSpace); i > len(cut)*2/3 {
		cut = cut[:i]
	}

	return strings.TrimRightFunc(cut, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';' || r == ':' || r == '-'
	})
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func pickImage(resolved, drafted string) string {
	if resolved != "" {
		return resolved
	}

	if u, err := url.Parse(drafted); err == nil && (u.Scheme == "https" || u.Scheme == "http") && u.Host != "" {
		return drafted
	}

	return image.DefaultImageURL
}

// Теги в нижнем регистре без повторов, а без тегов берем слова темы
func normalizeTags(topic string, tags []string) []string {
	out := lo.Uniq(lo.FilterMap(tags, func(tag string, _ int) (string, bool) {
		t := strings.ToLower(collapseSpaces(tag))
		return t, t != ""
	}))

	if len(out) > 0 {
		return out
	}

	words := strings.FieldsFunc(strings.ToLower(topic), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	return lo.Uniq(words)
}
