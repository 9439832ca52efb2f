package quality

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var wordRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {},
	"at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "could": {}, "should": {}, "may": {}, "might": {}, "can": {},
	"this": {}, "that": {}, "these": {}, "those": {},
	"的": {}, "了": {}, "在": {}, "是": {}, "我": {}, "你": {}, "他": {}, "她": {}, "它": {},
	"们": {}, "和": {}, "与": {}, "或": {}, "但": {}, "如果": {}, "因为": {},
}

// Keywords extracts up to max frequency-ranked keywords from text, with
// stop words and short tokens filtered out. Failure yields nil.
func Keywords(text string, max int) (keywords []string) {
	defer func() {
		if recover() != nil {
			keywords = nil
		}
	}()

	if strings.TrimSpace(text) == "" || max <= 0 {
		return nil
	}

	type wordStat struct {
		word  string
		count int
		first int
	}

	stats := make(map[string]*wordStat)
	order := 0
	for _, word := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if utf8.RuneCountInString(word) <= 2 {
			continue
		}
		if _, stopped := stopWords[word]; stopped {
			continue
		}
		if stat, ok := stats[word]; ok {
			stat.count++
		} else {
			stats[word] = &wordStat{word: word, count: 1, first: order}
			order++
		}
	}

	ranked := make([]*wordStat, 0, len(stats))
	for _, stat := range stats {
		ranked = append(ranked, stat)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].first < ranked[j].first
	})

	if len(ranked) > max {
		ranked = ranked[:max]
	}
	keywords = make([]string, 0, len(ranked))
	for _, stat := range ranked {
		keywords = append(keywords, stat.word)
	}
	return keywords
}
