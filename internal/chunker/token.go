package chunker

import (
	"strings"
	"unicode"
)

// EstimateTokens approximates how many model tokens text will use. Words
// count about 1.33 tokens each; scripts written without spaces count one
// token per character.
func EstimateTokens(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	var words, dense int
	for _, f := range strings.Fields(text) {
		n := 0
		for _, r := range f {
			if unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r) || unicode.Is(unicode.Hangul, r) {
				n++
			}
		}
		if n > 0 {
			dense += n
		} else {
			words++
		}
	}
	return max(int(float64(words)*1.33)+dense, 1)
}
