package quality

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"horse.fit/polyglot/internal/language"
)

// Readability computes language-appropriate readability statistics.
// English text gets the standard indices; other scripts get simple
// sentence/word/character averages. Failure yields an empty map.
func Readability(text, lang string) (stats map[string]float64) {
	defer func() {
		if recover() != nil {
			stats = map[string]float64{}
		}
	}()

	if strings.TrimSpace(text) == "" {
		return map[string]float64{}
	}

	if language.NormalizeCode(lang) == "en" {
		return englishReadability(text)
	}
	return basicReadability(text)
}

func englishReadability(text string) map[string]float64 {
	sentences := countSentences(text)
	words := strings.Fields(text)
	wordCount := len(words)
	if sentences == 0 || wordCount == 0 {
		return map[string]float64{}
	}

	syllables := 0
	complexWords := 0
	letters := 0
	for _, word := range words {
		s := countSyllables(word)
		syllables += s
		if s >= 3 {
			complexWords++
		}
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsNumber(r) {
				letters++
			}
		}
	}

	wordsPerSentence := float64(wordCount) / float64(sentences)
	syllablesPerWord := float64(syllables) / float64(wordCount)
	lettersPerWord := float64(letters) / float64(wordCount)

	return map[string]float64{
		"flesch_reading_ease":         round2(206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord),
		"flesch_kincaid_grade":        round2(0.39*wordsPerSentence + 11.8*syllablesPerWord - 15.59),
		"gunning_fog":                 round2(0.4 * (wordsPerSentence + 100*float64(complexWords)/float64(wordCount))),
		"automated_readability_index": round2(4.71*lettersPerWord + 0.5*wordsPerSentence - 21.43),
		"coleman_liau_index":          round2(0.0588*(lettersPerWord*100) - 0.296*(float64(sentences)/float64(wordCount)*100) - 15.8),
	}
}

func basicReadability(text string) map[string]float64 {
	sentences := countSentences(text)
	wordCount := len(strings.Fields(text))
	characters := utf8.RuneCountInString(text)
	if sentences == 0 || wordCount == 0 {
		return map[string]float64{}
	}

	return map[string]float64{
		"avg_sentence_length": round2(float64(wordCount) / float64(sentences)),
		"avg_word_length":     round2(float64(characters) / float64(wordCount)),
		"sentence_count":      float64(sentences),
		"word_count":          float64(wordCount),
		"character_count":     float64(characters),
	}
}

func countSentences(text string) int {
	count := 0
	for _, part := range sentenceSplitRe.Split(text, -1) {
		if strings.TrimSpace(part) != "" {
			count++
		}
	}
	return count
}

// countSyllables approximates English syllables by counting vowel groups,
// with a silent-e adjustment.
func countSyllables(word string) int {
	cleaned := strings.ToLower(strings.TrimFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r)
	}))
	if cleaned == "" {
		return 0
	}

	isVowel := func(r rune) bool {
		return strings.ContainsRune("aeiouy", r)
	}

	count := 0
	previousWasVowel := false
	for _, r := range cleaned {
		if isVowel(r) {
			if !previousWasVowel {
				count++
			}
			previousWasVowel = true
		} else {
			previousWasVowel = false
		}
	}

	if strings.HasSuffix(cleaned, "e") && !strings.HasSuffix(cleaned, "le") && count > 1 {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
