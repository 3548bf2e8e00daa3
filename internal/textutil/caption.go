package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// maxBMP is the highest codepoint the automation layer can inject reliably.
// Supplementary-plane characters (most emoji) are dropped.
const maxBMP = 0xFFFF

// SanitizeCaption normalizes a caption to NFC and removes every codepoint
// outside the Basic Multilingual Plane. The second return reports whether the
// result differs from the input in any way, so callers can warn that the
// published caption is not the scheduled one.
func SanitizeCaption(caption string) (string, bool) {
	normalized := norm.NFC.String(caption)

	var b strings.Builder
	b.Grow(len(normalized))
	for _, r := range normalized {
		if r > maxBMP {
			continue
		}
		b.WriteRune(r)
	}
	result := b.String()
	return result, result != caption
}
