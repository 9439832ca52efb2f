package document

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitKeepsSmallTextWhole(t *testing.T) {
	t.Parallel()

	text := "Short text that fits in one chunk."
	chunks := Split(text, DefaultChunkSize)
	if len(chunks) != 1 || chunks[0] != text {
		t.Fatalf("expected single untouched chunk, got %v", chunks)
	}

	// Within-budget text is returned verbatim, even when empty.
	if chunks := Split("", 10); !reflect.DeepEqual(chunks, []string{""}) {
		t.Fatalf("expected the empty text back, got %#v", chunks)
	}
}

func TestSplitAccumulatesWholeSentences(t *testing.T) {
	t.Parallel()

	text := "First sentence here. Second sentence here. Third sentence here. Fourth sentence here."
	chunks := Split(text, 45)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %v", chunks)
	}
	for i, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			t.Fatalf("chunk %d is blank", i)
		}
		// One oversized sentence may exceed the budget; accumulated
		// pairs must not.
		if strings.Contains(chunk, ". ") && utf8.RuneCountInString(chunk) > 45+1 {
			t.Fatalf("chunk %d exceeds budget: %q", i, chunk)
		}
	}

	joined := strings.Join(chunks, " ")
	for _, word := range []string{"First", "Second", "Third", "Fourth"} {
		if !strings.Contains(joined, word) {
			t.Fatalf("sentence %q lost during split: %v", word, chunks)
		}
	}
}

func TestSplitIsDeterministic(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("这是一个测试句子。", 300)
	first := Split(text, 100)
	second := Split(text, 100)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("split is not deterministic")
	}
	if len(first) < 2 {
		t.Fatalf("expected long text to split, got %d chunks", len(first))
	}
}

func TestSplitChinesePunctuation(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("第一句话。第二句话！第三句话？", 20)
	chunks := Split(text, 30)
	if len(chunks) < 2 {
		t.Fatalf("expected Chinese terminators to produce boundaries, got %v", chunks)
	}
	for i, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			t.Fatalf("chunk %d is blank", i)
		}
	}
}
