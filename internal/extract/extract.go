// Package extract turns stored documents into plain text for the
// translation pipeline.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	readability "codeberg.org/readeck/go-readability/v2"
)

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

// Service extracts plain text from supported file formats.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Extract reads the file at path and returns its plain-text content.
// The format decides the parser: "txt", "srt", or "html"/"htm".
func (s *Service) Extract(ctx context.Context, path, format string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "txt":
		return extractText(path)
	case "srt":
		return extractSubtitles(path)
	case "html", "htm":
		return extractHTML(path)
	default:
		return "", fmt.Errorf("unsupported file format: %s", format)
	}
}

func extractText(path string) (string, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return string(body), nil
}

// extractSubtitles keeps only cue text from an SRT file: sequence numbers
// and timecode lines are dropped, HTML styling tags are stripped.
func extractSubtitles(path string) (string, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	normalized := strings.ReplaceAll(string(body), "\r\n", "\n")
	lines := make([]string, 0, 64)
	for _, block := range strings.Split(normalized, "\n\n") {
		for _, line := range strings.Split(block, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if strings.Contains(trimmed, "-->") {
				continue
			}
			if isCueNumber(trimmed) {
				continue
			}
			clean := strings.TrimSpace(htmlTagRe.ReplaceAllString(trimmed, ""))
			if clean != "" {
				lines = append(lines, clean)
			}
		}
	}

	if len(lines) == 0 {
		return "", fmt.Errorf("subtitle file has no cue text")
	}
	return strings.Join(lines, "\n"), nil
}

func extractHTML(path string) (string, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	pageURL := &url.URL{Scheme: "file", Path: path}
	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return "", fmt.Errorf("readability parse: %w", err)
	}

	var renderedText bytes.Buffer
	if err := article.RenderText(&renderedText); err != nil {
		return "", fmt.Errorf("render readability text: %w", err)
	}

	text := CleanText(renderedText.String())
	if text == "" {
		text = CleanText(article.Excerpt())
	}
	if text == "" {
		return "", fmt.Errorf("extracted empty content")
	}
	return text, nil
}

func isCueNumber(line string) bool {
	for _, r := range line {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CleanText normalizes line endings and collapses extra in-line whitespace.
func CleanText(raw string) string {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	lines := strings.Split(normalized, "\n")
	paragraphs := make([]string, 0, len(lines))
	for _, line := range lines {
		clean := strings.Join(strings.Fields(strings.TrimSpace(line)), " ")
		if clean == "" {
			continue
		}
		paragraphs = append(paragraphs, clean)
	}

	return strings.TrimSpace(strings.Join(paragraphs, "\n\n"))
}
