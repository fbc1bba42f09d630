// Package normalize provides text normalization helpers for caseless matching.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold returns s in Unicode case-folded form.
// Folding is the canonical caseless representation: it handles cases
// ASCII lowercasing misses, like İ and ß.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// ContainsFold reports whether substr occurs within s under Unicode
// case folding. Plain substring semantics: no tokenization, no ranking.
func ContainsFold(s, substr string) bool {
	return strings.Contains(Fold(s), Fold(substr))
}
