package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var reKeepLettersOnly = regexp.MustCompile(`[^\p{L}]+`)

// TrimAndNormalize collapses runs of whitespace to single spaces.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// SanitizeTitle keeps the listing title human-readable: whitespace
// collapsed, no case folding.
func SanitizeTitle(input string) string {
	return TrimAndNormalize(input)
}

func SanitizeDescription(input string) string {
	return TrimAndNormalize(input)
}

// SanitizeCity folds a city to its canonical lookup key: "Tel Aviv"
// becomes "telaviv".
func SanitizeCity(input string) string {
	p := Pipeline{
		TrimAndNormalize,
		strings.ToLower,
		func(s string) string { return reKeepLettersOnly.ReplaceAllString(s, "") },
	}
	return p.Apply(input)
}

// SanitizeUserID trims identifier input. IDs are opaque, so no case
// folding either.
func SanitizeUserID(input string) string {
	return strings.TrimSpace(input)
}

// SanitizeSlice applies a strategy across a slice, dropping empties
// and duplicates while preserving order.
func SanitizeSlice(values []string, strategy Strategy) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, v := range values {
		s := strategy(v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}

func SanitizeUserIDs(ids []string) []string {
	return SanitizeSlice(ids, SanitizeUserID)
}

// SanitizeLeaseTerms drops non-positive terms and duplicates while
// preserving the order the owner listed them in.
func SanitizeLeaseTerms(terms []int) []int {
	seen := make(map[int]struct{})
	out := []int{}

	for _, t := range terms {
		if t <= 0 {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	return out
}
