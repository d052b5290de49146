package matching

import (
	"strings"
	"unicode/utf8"
)

// DefaultMinContainedLength is the rune count both names must exceed before
// one name containing the other counts as a match.
const DefaultMinContainedLength = 3

// NameMatcher decides whether two patient names refer to the same person.
type NameMatcher func(a, b string) bool

// NormalizeName trims, lower-cases and collapses runs of whitespace to a single space.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// ContainmentMatcher matches names that normalize to the same value, or where one
// normalized name contains the other and both are longer than minLength runes.
func ContainmentMatcher(minLength int) NameMatcher {
	return func(a, b string) bool {
		na, nb := NormalizeName(a), NormalizeName(b)
		if na == "" || nb == "" {
			return false
		}
		if na == nb {
			return true
		}
		if utf8.RuneCountInString(na) <= minLength || utf8.RuneCountInString(nb) <= minLength {
			return false
		}
		return strings.Contains(na, nb) || strings.Contains(nb, na)
	}
}

// SimilarNames is the default matcher.
var SimilarNames = ContainmentMatcher(DefaultMinContainedLength)
