package utils

import (
	"strings"

	"golang.org/x/net/html"
)

// SanitizeHTML turns provider descriptions into plain text: <br> becomes a
// newline, every other tag is dropped and entities are decoded.
func SanitizeHTML(s string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			if name, _ := z.TagName(); string(name) == "br" {
				b.WriteByte('\n')
			}
		}
	}
}

// CountWords counts whitespace-separated words after trimming.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// TruncateWords keeps the first n space-separated words. truncated reports
// whether anything was cut, in which case "..." is appended.
func TruncateWords(s string, n int) (out string, truncated bool) {
	words := strings.Split(s, " ")
	if len(words) <= n {
		return s, false
	}
	return strings.Join(words[:n], " ") + "...", true
}

// Truncate shortens s to max runes, ending in "..." when cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// SanitizeFilename removes characters that are invalid in filenames.
func SanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	result = strings.Trim(result, ".")
	return result
}
