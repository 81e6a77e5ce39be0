package services

import (
	"regexp"
	"strings"
)

var blankRun = regexp.MustCompile(`\n\s*\n+`)

// JoinPages concatenates page texts in order with a blank-line separator.
func JoinPages(pages []string) string {
	return strings.Join(pages, "\n\n")
}

// CleanResumeText collapses blank-line runs, trims every line and drops the
// lines left empty. Applying it twice yields the same text.
func CleanResumeText(raw string) string {
	text := blankRun.ReplaceAllString(raw, "\n\n")

	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}

// PreviewWords returns the first n whitespace-separated words of s.
func PreviewWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

// Snippet returns the first limit runes of s, followed by "..." when s is longer.
func Snippet(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
