package utils

import (
	"strings"
)

// SplitCodes splits a comma-delimited code field and trims each piece.
// Empty pieces are kept so the result mirrors the source positionally.
func SplitCodes(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	codes := make([]string, 0, len(parts))
	for _, p := range parts {
		codes = append(codes, strings.TrimSpace(p))
	}
	return codes
}

// Prefix returns the first n characters of s, or s itself when shorter.
func Prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// EqualFold reports whether two non-empty strings match case-insensitively.
func EqualFold(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}

// LowerAll returns a lower-cased copy of every term.
func LowerAll(terms []string) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = strings.ToLower(t)
	}
	return out
}

// CountContained counts how many terms occur as substrings of text.
// Both text and terms are expected to already be lower-cased.
func CountContained(text string, terms []string) int {
	matches := 0
	for _, term := range terms {
		if strings.Contains(text, term) {
			matches++
		}
	}
	return matches
}

// NormalizeTag trims and lower-cases a vocabulary tag such as a certification code.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
