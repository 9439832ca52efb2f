package document

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize is the per-chunk character budget.
const DefaultChunkSize = 1000

var sentenceEndRe = regexp.MustCompile(`[.!?。！？]\s*`)

// Split breaks text into chunks of at most roughly chunkSize characters,
// accumulating whole sentences greedily. The algorithm is a deterministic
// single pass: the same input always yields the same chunk boundaries.
// Text within the budget becomes a single chunk.
func Split(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if utf8.RuneCountInString(text) <= chunkSize {
		return []string{text}
	}

	sentences := sentenceEndRe.Split(text, -1)
	chunks := make([]string, 0, utf8.RuneCountInString(text)/chunkSize+1)
	current := ""

	for _, sentence := range sentences {
		if strings.TrimSpace(sentence) == "" {
			continue
		}
		if current != "" && utf8.RuneCountInString(current)+utf8.RuneCountInString(sentence) > chunkSize {
			chunks = append(chunks, strings.TrimSpace(current))
			current = sentence
			continue
		}
		if current == "" {
			current = sentence
		} else {
			current += ". " + sentence
		}
	}

	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}
	return chunks
}
