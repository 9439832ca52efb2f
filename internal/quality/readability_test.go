package quality

import "testing"

func TestReadabilityEnglish(t *testing.T) {
	t.Parallel()

	stats := Readability("The cat sat on the mat. The dog ran fast.", "en")
	for _, key := range []string{
		"flesch_reading_ease",
		"flesch_kincaid_grade",
		"gunning_fog",
		"automated_readability_index",
		"coleman_liau_index",
	} {
		if _, ok := stats[key]; !ok {
			t.Fatalf("missing %s in %v", key, stats)
		}
	}
	// Two short monosyllabic sentences sit at the easy end of the scale.
	if stats["flesch_reading_ease"] < 90 {
		t.Fatalf("expected very easy text, got flesch_reading_ease=%v", stats["flesch_reading_ease"])
	}
}

func TestReadabilityNonEnglish(t *testing.T) {
	t.Parallel()

	stats := Readability("这是第一句话。这是第二句话。", "zh")
	if stats["sentence_count"] != 2 {
		t.Fatalf("expected 2 sentences, got %v", stats)
	}
	if _, ok := stats["avg_sentence_length"]; !ok {
		t.Fatalf("missing avg_sentence_length in %v", stats)
	}
	if _, ok := stats["flesch_reading_ease"]; ok {
		t.Fatalf("non-English text must not get English indices: %v", stats)
	}
}

func TestReadabilityEmpty(t *testing.T) {
	t.Parallel()

	if stats := Readability("   ", "en"); len(stats) != 0 {
		t.Fatalf("blank text must yield an empty map, got %v", stats)
	}
}

func TestCountSyllables(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"cat":       1,
		"table":     2,
		"beautiful": 3,
		"the":       1,
		"rhythm":    1,
	}
	for word, want := range cases {
		if got := countSyllables(word); got != want {
			t.Fatalf("countSyllables(%q) = %d, want %d", word, got, want)
		}
	}
}
