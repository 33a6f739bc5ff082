package chunker

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxChars is the chunk budget used when callers pass a non-positive limit.
const DefaultMaxChars = 12000

const paragraphJoiner = "\n\n"

// Split breaks text into chunks of at most maxChars characters, keeping
// blank-line-delimited paragraphs together where possible. Paragraphs longer
// than maxChars are hard-sliced into maxChars pieces and emitted on their own.
// Whitespace-only chunks are dropped.
func Split(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if text == "" {
		return []string{}
	}

	chunks := []string{}
	var current []string
	currentLen := 0

	flush := func() {
		if len(current) > 0 {
			chunks = appendChunk(chunks, strings.Join(current, paragraphJoiner))
		}
		current = nil
		currentLen = 0
	}

	for _, para := range strings.Split(text, paragraphJoiner) {
		paraLen := utf8.RuneCountInString(para)
		joiner := 0
		if len(current) > 0 {
			joiner = len(paragraphJoiner)
		}

		if currentLen+joiner+paraLen <= maxChars {
			current = append(current, para)
			currentLen += joiner + paraLen
			continue
		}

		flush()

		if paraLen > maxChars {
			for _, slice := range hardSplit(para, maxChars) {
				chunks = appendChunk(chunks, slice)
			}
			continue
		}

		current = []string{para}
		currentLen = paraLen
	}
	flush()

	return chunks
}

// hardSplit cuts s into consecutive pieces of at most n runes.
func hardSplit(s string, n int) []string {
	var out []string
	count := 0
	start := 0
	for i := range s {
		if count == n {
			out = append(out, s[start:i])
			start = i
			count = 0
		}
		count++
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

func appendChunk(chunks []string, chunk string) []string {
	if strings.TrimSpace(chunk) == "" {
		return chunks
	}
	return append(chunks, chunk)
}
