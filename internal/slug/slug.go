// Пакет slug строит идентификаторы статей для URL
package slug

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
)

const maxLen = 80

var (
	whitespace   = regexp.MustCompile(`\s+`)
	disallowed   = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRepeat = regexp.MustCompile(`-{2,}`)
	valid        = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// Make приводит s к нижнему регистру, заменяет пробелы дефисами и выкидывает
// все, что не входит в [a-z0-9-]. Повторные дефисы схлопываются, крайние срезаются.
// Если ничего не осталось, берется стабильный хеш s, пустым результат не бывает.
func Make(s string) string {
	out := strings.ToLower(strings.TrimSpace(s))
	out = whitespace.ReplaceAllString(out, "-")
	out = disallowed.ReplaceAllString(out, "")
	out = hyphenRepeat.ReplaceAllString(out, "-")
	out = strings.Trim(out, "-")

	if len(out) > maxLen {
		out = strings.TrimRight(out[:maxLen], "-")
	}

	if out == "" {
		h := fnv.New32a()
		_, _ = h.Write([]byte(s))
		return fmt.Sprintf("article-%08x", h.Sum32())
	}

	return out
}

// Valid сообщает, что s корректный slug
func Valid(s string) bool {
	return valid.MatchString(s)
}
