package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/kailas-cloud/thesisrec/internal/domain/program"
)

// foldAccents strips combining marks: "Génie Électrique" -> "Genie Electrique".
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// MapProgram resolves free program text to a known program.
// Matching is on lowercase ASCII letters: "génie informatique" and "GI" both map to GI.
func MapProgram(text string) (program.Program, bool) {
	name := strings.ToLower(foldAccents(text))
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, name)
	name = strings.TrimSpace(name)

	switch {
	case strings.Contains(name, "informatique") || name == "gi":
		return program.GI, true
	case strings.Contains(name, "electrique") || name == "ge":
		return program.GE, true
	case strings.Contains(name, "civil") || name == "gc":
		return program.GC, true
	}
	return program.Any, false
}
