package timeline

import (
	"strings"
	"unicode/utf8"
)

// WrapText breaks text into display rows of at most width characters,
// breaking on whitespace and never splitting a word unless the word itself
// exceeds width.
func WrapText(text string, width int) []string {
	if width <= 0 {
		width = 1
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
		}
	}

	for _, word := range words {
		for utf8.RuneCountInString(word) > width {
			flush()
			r := []rune(word)
			lines = append(lines, string(r[:width]))
			word = string(r[width:])
		}
		candidateLen := utf8.RuneCountInString(cur.String())
		if candidateLen > 0 {
			candidateLen++ // joining space
		}
		candidateLen += utf8.RuneCountInString(word)

		if candidateLen > width {
			flush()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	flush()

	return lines
}
