package subtitle

import "strings"

// escapeText passes every string destined for an ASS event through a
// single replacer covering the three characters the format reserves plus
// hard line breaks, per spec §9 ("never reconstruct ad hoc").
var escaper = strings.NewReplacer(
	"{", "｛", // fullwidth left curly bracket U+FF5B
	"}", "｝", // fullwidth right curly bracket U+FF5D
	"\\", "＼", // fullwidth reverse solidus U+FF3C
	"\n", `\N`,
)

func escapeText(s string) string {
	return escaper.Replace(s)
}
