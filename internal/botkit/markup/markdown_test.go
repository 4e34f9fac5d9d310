package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeForMarkdown(t *testing.T) {
	cases := map[string]string{
		"plain words":         "plain words",
		"ai-trends-2025":      `ai\-trends\-2025`,
		"https://x.com/a_b":   `https://x\.com/a\_b`,
		"*bold* (maybe)!":     `\*bold\* \(maybe\)\!`,
		`back\slash`:          `back\\slash`,
		"{json: [1, 2]} #tag": `\{json: \[1, 2\]\} \#tag`,
	}

	for in, want := range cases {
		assert.Equal(t, want, EscapeForMarkdown(in), in)
	}
}
