package assembler

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/kovalyov-valentin/trendwise/internal/generator"
	"github.com/kovalyov-valentin/trendwise/internal/image"
	"github.com/kovalyov-valentin/trendwise/internal/model"
	"github.com/kovalyov-valentin/trendwise/internal/slug"
	"github.com/stretchr/testify/assert"
)

var fixedNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func newTestAssembler() *Assembler {
	a := New()
	a.now = func() time.Time { return fixedNow }
	return a
}

func TestAssemble_FullDraft(t *testing.T) {
	a := newTestAssembler()

	got := a.Assemble("Quantum Computing", model.Draft{
		Title:           "Quantum Computing in 2025",
		Slug:            "Quantum Computing: 2025!",
		MetaDescription: "Where quantum computing stands today.",
		Content:         "<h2>Intro</h2><p>Qubits.</p>",
		OgImage:         "https://images.example.com/drafted.jpg",
		Tags:            []string{"Quantum", "quantum", " Physics "},
	}, "https://images.example.com/resolved.jpg")

	assert.Equal(t, "Quantum Computing in 2025", got.Title)
	assert.Equal(t, "quantum-computing", got.Slug)
	assert.Equal(t, "Where quantum computing stands today.", got.MetaDescription)
	assert.Equal(t, "<h2>Intro</h2><p>Qubits.</p>", got.Content)
	assert.Equal(t, "https://images.example.com/resolved.jpg", got.OgImage)
	assert.Equal(t, []string{"quantum", "physics"}, got.Tags)
	assert.Equal(t, model.SystemAuthor, got.Author)
	assert.Equal(t, fixedNow, got.PublishedAt)
	assert.NotNil(t, got.Media.Images)
	assert.Empty(t, got.Media.Videos)
}

func TestAssemble_DerivesMissingFields(t *testing.T) {
	a := newTestAssembler()
	body := strings.Repeat("Climate policy is changing fast across the world. ", 10)

	got := a.Assemble("Climate Change 2025", model.Draft{
		Content: "<h2>Overview</h2><p>" + body + "</p>",
	}, "")

	assert.Equal(t, "Climate Change 2025", got.Title)
	assert.Equal(t, "climate-change-2025", got.Slug)
	assert.True(t, strings.HasPrefix(got.MetaDescription, "Overview Climate policy"), got.MetaDescription)
	assert.LessOrEqual(t, utf8.RuneCountInString(got.MetaDescription), MaxDescriptionLen)
	assert.Equal(t, []string{"climate", "change", "2025"}, got.Tags)
	assert.Equal(t, image.DefaultImageURL, got.OgImage)
}

func TestAssemble_ImageFallbacks(t *testing.T) {
	a := newTestAssembler()

	cases := []struct {
		name     string
		resolved string
		drafted  string
		want     string
	}{
		{"resolved wins", "https://r.example.com/a.jpg", "https://d.example.com/b.jpg", "https://r.example.com/a.jpg"},
		{"drafted when nothing resolved", "", "https://d.example.com/b.jpg", "https://d.example.com/b.jpg"},
		{"drafted garbage", "", "not a url", image.DefaultImageURL},
		{"drafted relative", "", "/img.png", image.DefaultImageURL},
		{"nothing", "", "", image.DefaultImageURL},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := a.Assemble("AI", model.Draft{Content: "<p>x</p>", OgImage: c.drafted}, c.resolved)
			assert.Equal(t, c.want, got.OgImage)
		})
	}
}

func TestAssemble_SanitizesContent(t *testing.T) {
	a := newTestAssembler()

	got := a.Assemble("AI", model.Draft{
		Title:   "AI",
		Content: `<h2 onclick="x()">AI</h2><script>alert(1)</script><p>Safe</p>`,
	}, "")

	assert.NotContains(t, got.Content, "script")
	assert.NotContains(t, got.Content, "onclick")
	assert.Contains(t, got.Content, "<p>Safe</p>")
}

// Свойства, которые должны выполняться для любой темы
func TestAssemble_InvariantsForAnyTopic(t *testing.T) {
	a := newTestAssembler()
	long := strings.Repeat("ünïcödé wörds ", 40)

	topics := []string{
		"Quantum Computing",
		"AI & ML: what's next?",
		"日本語のトピック",
		"!!!",
		"   ",
		long,
		"5G",
	}

	drafts := []model.Draft{
		{},
		{MetaDescription: long, Content: "<p>" + long + "</p>"},
		generator.FallbackDraft("Quantum Computing", "raw text"),
		{Slug: "Ünïcode Slug", Content: long},
	}

	for _, topic := range topics {
		for _, d := range drafts {
			got := a.Assemble(topic, d, "")

			assert.True(t, slug.Valid(got.Slug), "slug %q for topic %q", got.Slug, topic)
			assert.NotEmpty(t, got.Title)
			assert.LessOrEqual(t, utf8.RuneCountInString(got.MetaDescription), MaxDescriptionLen)
			assert.NotEmpty(t, got.MetaDescription)
			assert.NotEmpty(t, got.OgImage)
			for _, tag := range got.Tags {
				assert.Equal(t, strings.ToLower(tag), tag)
			}
		}
	}
}

func TestStub(t *testing.T) {
	a := newTestAssembler()

	got := a.Stub("Remote Work Future", "https://r.example.com/a.jpg")

	assert.Equal(t, "Latest Trends: Remote Work Future", got.Title)
	assert.Equal(t, "remote-work-future", got.Slug)
	assert.Equal(t, "<h2>Remote Work Future</h2><p>Content about Remote Work Future will be generated soon...</p>", got.Content)
	assert.Equal(t, []string{"remote work future"}, got.Tags)
	assert.Equal(t, "https://r.example.com/a.jpg", got.OgImage)
	assert.Contains(t, got.MetaDescription, "Remote Work Future")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "hello big", Truncate("hello big world", 12))
	assert.Equal(t, "abcdefghij", Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "привет", Truncate("привет мир", 7))
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Title Para one. Item", PlainText("<h2>Title</h2><p>Para one.</p><ul><li>Item</li></ul>"))
	assert.Equal(t, "", PlainText("   "))
}
