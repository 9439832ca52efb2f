package extract

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestExtractPlainText(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "doc.txt", "Hello world.\nSecond line.")
	service := NewService()

	text, err := service.Extract(context.Background(), path, "txt")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "Hello world.\nSecond line." {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractSubtitles(t *testing.T) {
	t.Parallel()

	srt := "1\r\n00:00:01,000 --> 00:00:03,000\r\nHello there.\r\n\r\n" +
		"2\r\n00:00:04,000 --> 00:00:06,000\r\n<i>General Kenobi!</i>\r\n"
	path := writeFile(t, "clip.srt", srt)
	service := NewService()

	text, err := service.Extract(context.Background(), path, "srt")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "Hello there.\nGeneral Kenobi!" {
		t.Fatalf("unexpected cue text: %q", text)
	}
}

func TestExtractSubtitlesWithoutCues(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "empty.srt", "1\n00:00:01,000 --> 00:00:03,000\n\n")
	service := NewService()

	if _, err := service.Extract(context.Background(), path, "srt"); err == nil {
		t.Fatalf("expected error for cue-less subtitle file")
	}
}

func TestExtractHTML(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head><title>Sample article</title></head>
<body>
<article>
<h1>Sample article</h1>
<p>This is the first paragraph of the article body. It carries enough
text for the content extractor to treat it as the main content of the
page rather than boilerplate.</p>
<p>A second paragraph keeps the article body substantial and ensures the
extraction yields more than a single fragment of text.</p>
</article>
</body>
</html>`
	path := writeFile(t, "page.html", html)
	service := NewService()

	text, err := service.Extract(context.Background(), path, "html")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(text, "first paragraph of the article body") {
		t.Fatalf("article body missing from extracted text: %q", text)
	}
	if strings.Contains(text, "<p>") {
		t.Fatalf("extracted text still contains markup: %q", text)
	}
}

func TestExtractUnsupportedFormat(t *testing.T) {
	t.Parallel()

	service := NewService()
	if _, err := service.Extract(context.Background(), "/tmp/doc.pdf", "pdf"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestExtractCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	service := NewService()
	if _, err := service.Extract(ctx, "/tmp/doc.txt", "txt"); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestCleanText(t *testing.T) {
	t.Parallel()

	raw := "  First   line \r\n\r\n\r\nSecond\tline  \r\n"
	if got := CleanText(raw); got != "First line\n\nSecond line" {
		t.Fatalf("unexpected cleaned text: %q", got)
	}
	if got := CleanText("   \n \r\n "); got != "" {
		t.Fatalf("expected empty output for blank input, got %q", got)
	}
}
