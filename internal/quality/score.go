// Package quality estimates translation quality with composite heuristics.
// Scores are best-effort estimates, not measured human judgments.
package quality

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"horse.fit/polyglot/internal/language"
)

// NeutralScore is returned when analysis fails for any reason.
const NeutralScore = 75.0

type langPair struct {
	source string
	target string
}

type ratioRange struct {
	min float64
	max float64
}

// expectedLengthRatios holds plausible translated/source length ratios for
// known language pairs. Unknown pairs use defaultLengthRatio.
var expectedLengthRatios = map[langPair]ratioRange{
	{"en", "zh"}: {0.4, 0.8},
	{"zh", "en"}: {1.2, 2.5},
	{"ja", "zh"}: {0.6, 1.2},
	{"ko", "zh"}: {0.6, 1.2},
	{"fr", "en"}: {0.8, 1.3},
	{"de", "en"}: {0.7, 1.2},
}

var defaultLengthRatio = ratioRange{0.5, 2.0}

var (
	sentenceSplitRe = regexp.MustCompile(`[.!?。！？]`)
	punctuationRe   = regexp.MustCompile(`[.!?。！？,，;；:：]`)

	// Malformation patterns: space before punctuation, runs of terminal
	// punctuation, runs of single-character tokens.
	malformationRes = []*regexp.Regexp{
		regexp.MustCompile(`\s+[.!?。！？]`),
		regexp.MustCompile(`[.!?。！？]{3,}`),
		regexp.MustCompile(`\b\w\b\s+\b\w\b\s+\b\w\b`),
	}

	// Paired markup-like spans checked for preservation.
	formatMarkerRes = []*regexp.Regexp{
		regexp.MustCompile(`\*\*.*?\*\*`),
		regexp.MustCompile(`\*.*?\*`),
		regexp.MustCompile("`.*?`"),
		regexp.MustCompile(`\[.*?\]`),
		regexp.MustCompile(`\(.*?\)`),
	}

	numberRe = regexp.MustCompile(`\d+(?:\.\d+)?`)
	urlRe    = regexp.MustCompile(`https?://[^\s]+`)
	emailRe  = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
)

// Score computes a composite 0-100 quality estimate for a translation.
// Analysis failure degrades to NeutralScore instead of propagating.
func Score(sourceText, translatedText, sourceLang, targetLang string) (score float64) {
	defer func() {
		if recover() != nil {
			score = NeutralScore
		}
	}()

	score = lengthRatioScore(sourceText, translatedText, sourceLang, targetLang)*0.20 +
		completenessScore(sourceText, translatedText)*0.25 +
		fluencyScore(translatedText)*0.25 +
		formatScore(sourceText, translatedText)*0.15 +
		specialCharScore(sourceText, translatedText)*0.15

	return clamp(score, 0, 100)
}

func lengthRatioScore(sourceText, translatedText, sourceLang, targetLang string) float64 {
	if sourceText == "" || translatedText == "" {
		return 0
	}

	sourceLen := float64(utf8.RuneCountInString(sourceText))
	translatedLen := float64(utf8.RuneCountInString(translatedText))
	if sourceLen == 0 {
		return 0
	}
	ratio := translatedLen / sourceLen

	pair := langPair{
		source: language.NormalizeCode(sourceLang),
		target: language.NormalizeCode(targetLang),
	}
	expected, ok := expectedLengthRatios[pair]
	if !ok {
		expected = defaultLengthRatio
	}

	switch {
	case ratio >= expected.min && ratio <= expected.max:
		return 100
	case ratio < expected.min:
		return clamp(100*(ratio/expected.min), 0, 100)
	default:
		return clamp(100*(expected.max/ratio), 0, 100)
	}
}

func completenessScore(sourceText, translatedText string) float64 {
	if sourceText == "" || translatedText == "" {
		return 0
	}

	score := 100.0

	if strings.HasSuffix(translatedText, "...") || strings.HasSuffix(translatedText, "…") {
		score -= 30
	}

	if utf8.RuneCountInString(sourceText) > 20 {
		sourceWords := wordSet(sourceText)
		translatedWords := wordSet(translatedText)
		overlap := 0
		for word := range sourceWords {
			if _, ok := translatedWords[word]; ok {
				overlap++
			}
		}
		// High lexical overlap suggests an untranslated passthrough.
		if len(sourceWords) > 0 && float64(overlap) > float64(len(sourceWords))*0.7 {
			score -= 40
		}
	}

	if utf8.RuneCountInString(strings.TrimSpace(translatedText)) < utf8.RuneCountInString(strings.TrimSpace(sourceText))/10 {
		score -= 50
	}

	return clamp(score, 0, 100)
}

func fluencyScore(text string) float64 {
	if text == "" {
		return 0
	}

	score := 100.0

	words := strings.Fields(text)
	if len(words) > 1 {
		unique := make(map[string]struct{}, len(words))
		for _, word := range words {
			unique[word] = struct{}{}
		}
		if float64(len(words))/float64(len(unique)) > 2.0 {
			score -= 20
		}
	}

	sentences := sentenceSplitRe.Split(text, -1)
	if len(sentences) > 0 {
		totalWords := 0
		for _, sentence := range sentences {
			totalWords += len(strings.Fields(sentence))
		}
		avgSentenceLength := float64(totalWords) / float64(len(sentences))
		if avgSentenceLength < 3 {
			score -= 15
		} else if avgSentenceLength > 50 {
			score -= 10
		}
	}

	if wordCount := len(words); wordCount > 0 {
		punctRatio := float64(len(punctuationRe.FindAllString(text, -1))) / float64(wordCount)
		if punctRatio > 0.3 {
			score -= 10
		} else if punctRatio < 0.05 && wordCount > 10 {
			score -= 15
		}
	}

	for _, re := range malformationRes {
		if re.MatchString(text) {
			score -= 5
		}
	}

	return clamp(score, 0, 100)
}

func formatScore(sourceText, translatedText string) float64 {
	if sourceText == "" || translatedText == "" {
		return 0
	}

	score := 100.0

	sourceLines := strings.Count(sourceText, "\n")
	translatedLines := strings.Count(translatedText, "\n")
	if sourceLines > 0 {
		diff := float64(abs(sourceLines-translatedLines)) / float64(sourceLines)
		if diff > 0.5 {
			score -= 20
		}
	}

	for _, re := range formatMarkerRes {
		sourceMatches := len(re.FindAllString(sourceText, -1))
		if sourceMatches == 0 {
			continue
		}
		translatedMatches := len(re.FindAllString(translatedText, -1))
		if float64(translatedMatches)/float64(sourceMatches) < 0.8 {
			score -= 10
		}
	}

	return clamp(score, 0, 100)
}

func specialCharScore(sourceText, translatedText string) float64 {
	if sourceText == "" || translatedText == "" {
		return 0
	}

	score := 100.0

	if ratio, ok := preservationRatio(numberRe, sourceText, translatedText); ok && ratio < 0.8 {
		score -= 20
	}
	if ratio, ok := preservationRatio(urlRe, sourceText, translatedText); ok && ratio < 0.9 {
		score -= 15
	}
	if ratio, ok := preservationRatio(emailRe, sourceText, translatedText); ok && ratio < 0.9 {
		score -= 15
	}

	return clamp(score, 0, 100)
}

// preservationRatio reports the share of distinct source tokens matched by
// re that also appear in the translation. ok is false when the source has
// no such tokens.
func preservationRatio(re *regexp.Regexp, sourceText, translatedText string) (float64, bool) {
	sourceTokens := tokenSet(re.FindAllString(sourceText, -1))
	if len(sourceTokens) == 0 {
		return 0, false
	}
	translatedTokens := tokenSet(re.FindAllString(translatedText, -1))

	preserved := 0
	for token := range sourceTokens {
		if _, ok := translatedTokens[token]; ok {
			preserved++
		}
	}
	return float64(preserved) / float64(len(sourceTokens)), true
}

func wordSet(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		set[word] = struct{}{}
	}
	return set
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func abs(value int) int {
	if value < 0 {
		return -value
	}
	return value
}
