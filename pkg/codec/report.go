package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ssargent/classdb/pkg/store"
)

// Errors
var (
	ErrMalformedLine = &CodecError{"malformed line"}
	ErrEmptyInput    = &CodecError{"empty input"}
	ErrCorrupt       = &CodecError{"corrupt record"}
)

// CodecError represents a decoding error
type CodecError struct {
	Message string
}

func (e *CodecError) Error() string {
	return e.Message
}

// Inserter receives decoded records. *store.Store satisfies it.
type Inserter interface {
	Insert(r store.Record) error
}

// LineError describes one input line that was skipped
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// ImportReport summarizes a decode pass
type ImportReport struct {
	Imported   int          `json:"imported"`
	Duplicates []int        `json:"duplicates,omitempty"`
	Headers    int          `json:"headers"`
	Malformed  []*LineError `json:"-"`
}

// Skipped returns the number of non-blank lines that produced no record
func (r *ImportReport) Skipped() int {
	return len(r.Duplicates) + len(r.Malformed)
}

// Insert adds rec to dst, counting it as imported or as a duplicate
func (r *ImportReport) Insert(dst Inserter, rec store.Record) error {
	err := dst.Insert(rec)
	switch {
	case err == nil:
		r.Imported++
	case errors.Is(err, store.ErrDuplicateID):
		r.Duplicates = append(r.Duplicates, rec.ID)
	default:
		return err
	}
	return nil
}

// Reject records a skipped input line
func (r *ImportReport) Reject(line int, err error) {
	r.Malformed = append(r.Malformed, &LineError{Line: line, Err: err})
}

// FormatMark renders a mark with exactly one fractional digit
func FormatMark(mark float32) string {
	return strconv.FormatFloat(float64(mark), 'f', 1, 64)
}

// fieldsToRecord converts the four text fields of a row
func fieldsToRecord(fields [4]string) (store.Record, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 32)
	if err != nil {
		return store.Record{}, fmt.Errorf("%w: invalid ID %q", ErrMalformedLine, fields[0])
	}
	mark, err := strconv.ParseFloat(strings.TrimSpace(fields[3]), 32)
	if err != nil {
		return store.Record{}, fmt.Errorf("%w: invalid Mark %q", ErrMalformedLine, fields[3])
	}
	return store.Record{
		ID:        int(id),
		Name:      fields[1],
		Programme: fields[2],
		Mark:      float32(mark),
	}, nil
}
