// Package normalize folds display names into a comparable form.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Name decomposes s (NFD), strips combining marks and lower-cases the result,
// so that "Éva" and "Eva" compare equal.
func Name(s string) string {
	// Chains carry state; build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}
