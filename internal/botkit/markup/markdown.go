package markup

import "strings"

// Символы, которые MarkdownV2 в телеграме требует экранировать
const specialChars = "_*[]()~`>#+-=|{}.!\\"

var replacer = newReplacer(specialChars)

func newReplacer(chars string) *strings.Replacer {
	pairs := make([]string, 0, 2*len(chars))
	for _, c := range chars {
		pairs = append(pairs, string(c), "\\"+string(c))
	}

	return strings.NewReplacer(pairs...)
}

// EscapeForMarkdown экранирует текст для сообщений с ParseMode MarkdownV2
func EscapeForMarkdown(src string) string {
	return replacer.Replace(src)
}
