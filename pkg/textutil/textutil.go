// Package textutil holds the byte-level text helpers shared by the argument
// parser, the codecs and the record store. All comparisons are ASCII
// case-insensitive; non-ASCII bytes compare exactly.
package textutil

import (
	"strings"
	"unicode/utf8"
)

// IsSpace reports whether b is one of the C locale whitespace bytes.
func IsSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// Trim removes leading and trailing whitespace.
func Trim(s string) string {
	start, end := 0, len(s)
	for start < end && IsSpace(s[start]) {
		start++
	}
	for end > start && IsSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

// SkipSpace returns the first index at or after i that is not whitespace.
func SkipSpace(s string, i int) int {
	for i < len(s) && IsSpace(s[i]) {
		i++
	}
	return i
}

func lower(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// ToUpper upper-cases ASCII letters only, so byte offsets into the result
// match the input.
func ToUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'a' <= c && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

// EqualFold compares a and b ignoring ASCII case.
func EqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if lower(a[i]) != lower(b[i]) {
			return false
		}
	}
	return true
}

// IndexFold returns the index of the first case-insensitive occurrence of
// needle in haystack, or -1. An empty needle matches at 0.
func IndexFold(haystack, needle string) int {
	if needle == "" {
		return 0
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		j := 0
		for j < len(needle) && lower(haystack[i+j]) == lower(needle[j]) {
			j++
		}
		if j == len(needle) {
			return i
		}
	}
	return -1
}

// ContainsFold reports whether needle occurs in haystack ignoring case.
func ContainsFold(haystack, needle string) bool {
	return IndexFold(haystack, needle) >= 0
}

// Truncate cuts s to at most max bytes without splitting a UTF-8 sequence.
// A max of zero or less leaves s untouched.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// Unquote strips one leading double quote and everything from the last
// double quote onwards, the way file names and search text are written
// after a verb. Text without a leading quote is returned unchanged.
func Unquote(s string) string {
	if !strings.HasPrefix(s, `"`) {
		return s
	}
	s = s[1:]
	if end := strings.LastIndexByte(s, '"'); end >= 0 {
		s = s[:end]
	}
	return s
}
