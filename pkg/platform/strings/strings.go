// Package strings provides string normalization shared by request parsing
// and admin catalog tools.
package strings

import (
	"regexp"
	"strings"
)

// DedupeAndTrimLower trims, lowercases and removes empty or repeated values.
// Order of first occurrence is preserved.
//
//	DedupeAndTrimLower([]string{"  Fruity ", "nutty", "FRUITY", ""})
//	// Returns: []string{"fruity", "nutty"}
func DedupeAndTrimLower(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.ToLower(strings.TrimSpace(v))
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}

// SplitAndTrim splits s on sep, trims each part and drops empty parts.
//
//	SplitAndTrim("Citrus, Jasmine ,, Honey", ",")
//	// Returns: []string{"Citrus", "Jasmine", "Honey"}
func SplitAndTrim(s, sep string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

var (
	nonWordOrSpace = regexp.MustCompile(`[^\w ]+`)
	spaceRun       = regexp.MustCompile(` +`)
)

// Slugify lowercases name, strips characters that are neither word characters
// nor spaces, then joins words with hyphens.
//
//	Slugify("Ethiopian Yirgacheffe (Washed)")
//	// Returns: "ethiopian-yirgacheffe-washed"
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = nonWordOrSpace.ReplaceAllString(s, "")
	s = spaceRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
