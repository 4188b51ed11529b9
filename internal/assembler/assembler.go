// Package assembler builds the bounded-length text block that conditions
// the summarizer.
package assembler

import (
	"strings"

	"gitarag/internal/domain"
)

// Delimiter separates verses inside an assembled context.
const Delimiter = " "

// Assemble concatenates retrieved verse texts in ranked order, bounded by
// maxLength characters. A verse is included only when it fits in full;
// partial inclusion is disallowed. The single exception: when the first
// verse alone exceeds maxLength it is hard-truncated, so a non-empty input
// always yields a non-empty context.
func Assemble(retrieved []domain.RetrievedVerse, maxLength int) string {
	if len(retrieved) == 0 || maxLength <= 0 {
		return ""
	}
	var b strings.Builder
	for _, v := range retrieved {
		text := v.Text
		if text == "" {
			text = v.Translation
		}
		if text == "" {
			continue
		}
		if b.Len() == 0 {
			if len(text) > maxLength {
				return truncateRunes(text, maxLength)
			}
			b.WriteString(text)
			continue
		}
		if b.Len()+len(Delimiter)+len(text) > maxLength {
			break
		}
		b.WriteString(Delimiter)
		b.WriteString(text)
	}
	return b.String()
}

// truncateRunes cuts at a rune boundary so a multi-byte character is never
// split.
func truncateRunes(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	for i := maxLength; i > 0; i-- {
		if (s[i] & 0xC0) != 0x80 {
			return s[:i]
		}
	}
	return ""
}
