package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCompletion(t *testing.T) {
	cases := []struct {
		name   string
		raw    string
		parsed bool
	}{
		{"plain json", `{"title":"T","content":"<p>c</p>"}`, true},
		{"json with prose around", "Sure! Here it is:\n{\"title\":\"T\",\"content\":\"<p>c</p>\"}\nEnjoy.", true},
		{"plain text", "Just some words about the topic.", false},
		{"truncated json", `{"title":"T","content":"<p>c`, false},
		{"missing content", `{"title":"T"}`, false},
		{"wrong tag type", `{"title":"T","content":"c","tags":"a,b"}`, false},
		{"braces reversed", "} nothing {", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ParseCompletion(c.raw)

			if c.parsed {
				d, ok := got.(ParsedDraft)
				require.True(t, ok, "expected ParsedDraft, got %T", got)
				assert.Equal(t, "T", d.Draft.Title)
				return
			}

			r, ok := got.(RawText)
			require.True(t, ok, "expected RawText, got %T", got)
			assert.Equal(t, c.raw, r.Text)
		})
	}
}

func TestFallbackDraft_EscapesTopicInHeading(t *testing.T) {
	d := FallbackDraft("<b>AI</b> & You", "text")

	assert.Equal(t, "<h2>&lt;b&gt;AI&lt;/b&gt; &amp; You</h2><p>text</p>", d.Content)
	assert.Equal(t, "Latest Trends: <b>AI</b> & You", d.Title)
	assert.Len(t, d.Tags, 1)
}
