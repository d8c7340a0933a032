// Package slug derives URL-safe tokens from story titles. The transform is
// deterministic and lossy: distinct titles may collapse to the same slug, and
// resolution is scoped per author to keep the collision surface small.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const separator = '-'

// stripMarks разбирает буквы на базовый символ + диакритику и выбрасывает
// диакритические знаки (Mn), так "é" становится "e".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Make encodes a title into a slug: lower-cased, diacritics stripped, runs of
// non-alphanumeric characters collapsed to a single '-', trimmed at both ends.
// Make("") == "".
func Make(title string) string {
	folded, _, err := transform.String(stripMarks, title)
	if err != nil {
		// Транслитерация не удалась — работаем с исходной строкой,
		// детерминированность важнее чистоты токена.
		folded = title
	}

	var b strings.Builder
	b.Grow(len(folded))
	lastSep := true // подавляет ведущий разделитель
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastSep = false
			continue
		}
		if !lastSep {
			b.WriteRune(separator)
			lastSep = true
		}
	}

	return strings.TrimRight(b.String(), string(separator))
}
