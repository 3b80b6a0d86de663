// Package args extracts KEY=VALUE arguments from a single command line.
//
// A key matches only as a whole token: it must sit at the start of the line
// or after whitespace, and be followed (after optional whitespace) by '='.
// Key names compare case-insensitively and arguments may come in any order.
//
// Values are either bare or double-quoted:
//
//	INSERT ID=7 Name="A B" Programme="X" Mark=9.5
//
// A quoted value runs to the next double quote with no escape processing.
// A bare value is the run of non-whitespace characters after '='.
package args

import (
	"strings"

	"github.com/ssargent/classdb/pkg/textutil"
)

// Errors
var (
	ErrMissing           = &ArgError{"argument not found"}
	ErrUnterminatedQuote = &ArgError{"unterminated quoted value"}
	ErrInvalidInteger    = &ArgError{"invalid integer"}
	ErrInvalidFloat      = &ArgError{"invalid number"}
)

// ArgError represents an argument parsing error
type ArgError struct {
	Message string
}

func (e *ArgError) Error() string {
	return e.Message
}

// Lookup finds key in line and returns its value. Values longer than limit
// bytes are truncated; a limit of zero or less means no limit.
//
// Occurrences of key that fail the boundary or '=' rules, or that lie inside
// the quoted value of another argument, are skipped and the scan continues.
// A bare value that is empty yields ErrMissing; a quoted value with no
// closing quote yields ErrUnterminatedQuote.
func Lookup(line, key string, limit int) (string, error) {
	if key == "" {
		return "", ErrMissing
	}

	quoted := quotedSpans(line)
	pos := 0
	for pos <= len(line) {
		at := textutil.IndexFold(line[pos:], key)
		if at < 0 {
			break
		}
		p := pos + at
		pos = p + 1

		if p > 0 && !textutil.IsSpace(line[p-1]) {
			continue
		}
		if quoted.contains(p) {
			continue
		}

		eq := textutil.SkipSpace(line, p+len(key))
		if eq >= len(line) || line[eq] != '=' {
			continue
		}
		start := textutil.SkipSpace(line, eq+1)

		if start < len(line) && line[start] == '"' {
			end := strings.IndexByte(line[start+1:], '"')
			if end < 0 {
				return "", ErrUnterminatedQuote
			}
			return textutil.Truncate(line[start+1:start+1+end], limit), nil
		}

		end := start
		for end < len(line) && !textutil.IsSpace(line[end]) {
			end++
		}
		if end == start {
			return "", ErrMissing
		}
		return textutil.Truncate(line[start:end], limit), nil
	}

	return "", ErrMissing
}

type span struct {
	start, end int // end is exclusive
}

type spans []span

func (s spans) contains(i int) bool {
	for _, sp := range s {
		if i >= sp.start && i < sp.end {
			return true
		}
	}
	return false
}

// quotedSpans locates the quoted values of the line: a double quote that
// follows '=' (with optional whitespace) opens a value that runs through the
// next double quote, or to the end of the line when there is none.
func quotedSpans(line string) spans {
	var out spans
	for i := 0; i < len(line); i++ {
		if line[i] != '=' {
			continue
		}
		open := textutil.SkipSpace(line, i+1)
		if open >= len(line) || line[open] != '"' {
			continue
		}
		end := len(line)
		if closing := strings.IndexByte(line[open+1:], '"'); closing >= 0 {
			end = open + 1 + closing + 1
		}
		out = append(out, span{start: open, end: end})
		i = end - 1
	}
	return out
}
