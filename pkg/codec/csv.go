package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ssargent/classdb/pkg/store"
	"github.com/ssargent/classdb/pkg/textutil"
)

// CSVHeader is the first line of every exported CSV file
const CSVHeader = "ID,Name,Programme,Mark"

var csvHeaderFields = [4]string{"ID", "Name", "Programme", "Mark"}

// maxLineSize bounds a single input line
const maxLineSize = 1 << 20

// WriteCSV writes the header and one line per record in the given order.
// Name and Programme are always quoted; ID and Mark never are.
func WriteCSV(w io.Writer, records []store.Record) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(CSVHeader + "\n")

	for _, r := range records {
		bw.WriteString(strconv.Itoa(r.ID))
		bw.WriteByte(',')
		writeQuoted(bw, r.Name)
		bw.WriteByte(',')
		writeQuoted(bw, r.Programme)
		bw.WriteByte(',')
		bw.WriteString(FormatMark(r.Mark))
		bw.WriteByte('\n')
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func writeQuoted(bw *bufio.Writer, s string) {
	bw.WriteByte('"')
	bw.WriteString(strings.ReplaceAll(s, `"`, `""`))
	bw.WriteByte('"')
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t'
}

// SplitCSVLine splits one CSV line into exactly four fields.
//
// Blanks before a field are skipped. A quoted field ends at a lone double
// quote; "" inside it stands for one literal quote. After a closing quote
// only blanks may precede the separating comma (or, for the last field, the
// end of the line). An unquoted field runs to the next comma or line end.
// Anything other than whitespace after the fourth field is an error.
func SplitCSVLine(line string) ([4]string, error) {
	var fields [4]string
	p := 0

	for col := 0; col < len(fields); col++ {
		for p < len(line) && isBlank(line[p]) {
			p++
		}

		if p < len(line) && line[p] == '"' {
			p++
			var b strings.Builder
			closed := false
			for p < len(line) {
				c := line[p]
				if c != '"' {
					b.WriteByte(c)
					p++
					continue
				}
				if p+1 < len(line) && line[p+1] == '"' {
					b.WriteByte('"')
					p += 2
					continue
				}
				p++
				closed = true
				break
			}
			if !closed {
				return fields, fmt.Errorf("%w: unterminated quote in field %d", ErrMalformedLine, col+1)
			}
			fields[col] = b.String()

			for p < len(line) && isBlank(line[p]) {
				p++
			}
		} else {
			start := p
			for p < len(line) && line[p] != ',' && line[p] != '\r' && line[p] != '\n' {
				p++
			}
			fields[col] = line[start:p]
		}

		if col < len(fields)-1 {
			if p >= len(line) || line[p] != ',' {
				return fields, fmt.Errorf("%w: expected ',' after field %d", ErrMalformedLine, col+1)
			}
			p++
		}
	}

	for p < len(line) && (isBlank(line[p]) || line[p] == '\r' || line[p] == '\n') {
		p++
	}
	if p != len(line) {
		return fields, fmt.Errorf("%w: unexpected text after field 4", ErrMalformedLine)
	}

	return fields, nil
}

func isCSVHeader(fields [4]string) bool {
	for i, f := range fields {
		if !textutil.EqualFold(f, csvHeaderFields[i]) {
			return false
		}
	}
	return true
}

// lineReader yields input lines without their line terminator. A line
// longer than maxLineSize is discarded through its newline and reported as
// errLineTooLong, so the caller can reject it and carry on.
type lineReader struct {
	r *bufio.Reader
}

var errLineTooLong = fmt.Errorf("%w: line longer than %d bytes", ErrMalformedLine, maxLineSize)

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReaderSize(r, maxLineSize)}
}

// next returns the next line, or io.EOF once the input is exhausted
func (lr *lineReader) next() (string, error) {
	b, err := lr.r.ReadSlice('\n')
	if err == bufio.ErrBufferFull {
		for err == bufio.ErrBufferFull {
			_, err = lr.r.ReadSlice('\n')
		}
		if err != nil && err != io.EOF {
			return "", err
		}
		return "", errLineTooLong
	}

	switch {
	case err == io.EOF && len(b) == 0:
		return "", io.EOF
	case err != nil && err != io.EOF:
		return "", err
	}
	return strings.TrimSuffix(string(b), "\n"), nil
}

// ReadCSV decodes CSV text and inserts every valid row into dst.
//
// Blank lines and header lines are skipped. Malformed or over-long lines and
// rows whose id already exists are skipped and listed in the report; they
// never abort the import. Existing records are never overwritten. An input
// with no lines at all returns ErrEmptyInput.
func ReadCSV(r io.Reader, dst Inserter) (*ImportReport, error) {
	report := &ImportReport{}
	lines := newLineReader(r)

	n := 0
	for {
		raw, err := lines.next()
		if err == io.EOF {
			break
		}
		if err != nil && !errors.Is(err, errLineTooLong) {
			return report, fmt.Errorf("failed to read csv: %w", err)
		}
		n++
		if err != nil {
			report.Reject(n, err)
			continue
		}

		line := textutil.Trim(raw)
		if line == "" {
			continue
		}

		fields, err := SplitCSVLine(line)
		if err != nil {
			report.Reject(n, err)
			continue
		}
		if isCSVHeader(fields) {
			report.Headers++
			continue
		}

		rec, err := fieldsToRecord(fields)
		if err != nil {
			report.Reject(n, err)
			continue
		}
		if err := report.Insert(dst, rec); err != nil {
			return report, fmt.Errorf("line %d: %w", n, err)
		}
	}

	if n == 0 {
		return report, ErrEmptyInput
	}

	return report, nil
}
