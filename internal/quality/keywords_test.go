package quality

import (
	"reflect"
	"testing"
)

func TestKeywords(t *testing.T) {
	t.Parallel()

	text := "The translation engine caches every translation result. The engine scores quality."
	got := Keywords(text, 3)
	want := []string{"translation", "engine", "caches"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected keywords: got %v, want %v", got, want)
	}
}

func TestKeywordsFiltersStopWordsAndShortTokens(t *testing.T) {
	t.Parallel()

	got := Keywords("the a an is to of it we", 10)
	if len(got) != 0 {
		t.Fatalf("stop words and short tokens must be filtered, got %v", got)
	}

	if got := Keywords("", 10); got != nil {
		t.Fatalf("empty text must yield nil, got %v", got)
	}
	if got := Keywords("meaningful keywords here", 0); got != nil {
		t.Fatalf("non-positive max must yield nil, got %v", got)
	}
}

func TestKeywordsTieBreakByFirstOccurrence(t *testing.T) {
	t.Parallel()

	got := Keywords("zebra apple zebra apple banana", 3)
	want := []string{"zebra", "apple", "banana"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ties must rank by first occurrence: got %v, want %v", got, want)
	}
}
