package domain

import (
	"strings"
	"unicode"
)

// NormalizeText prepares text for comparison and duplicate keys:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - compresses multiple spaces into one
//
// Diacritics, hyphens, and apostrophes are preserved.
func NormalizeText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)

	// Compress multiple spaces into one.
	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CleanText trims surrounding whitespace and compresses runs of internal
// whitespace into single spaces, preserving the original casing.
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// TitleCase uppercases the first letter of every word and lowercases the
// rest. Words are separated by spaces; punctuation inside a word (e.g.
// "joe's") is left alone.
func TitleCase(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// FormatPhone renders a 10-digit US number as (NNN) NNN-NNNN and an
// 11-digit number with a leading 1 the same way. Anything else is
// returned unchanged; reformatting an unknown shape loses information.
func FormatPhone(phone string) string {
	var digits []rune
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	if len(digits) != 10 {
		return phone
	}
	d := string(digits)
	return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
}

// FormatURL prefixes a bare host with https://. Values that already carry
// an http or https scheme are returned unchanged.
func FormatURL(url string) string {
	trimmed := strings.TrimSpace(url)
	if trimmed == "" {
		return url
	}
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return trimmed
	}
	return "https://" + trimmed
}

// Truncate cuts s to at most max runes, appending no ellipsis: stored
// values must stay valid for their column width.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
