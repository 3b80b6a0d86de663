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

// WriteTSV writes records in the given order, one tab-separated line each.
// Values are written verbatim.
func WriteTSV(w io.Writer, records []store.Record) error {
	bw := bufio.NewWriter(w)

	for _, r := range records {
		bw.WriteString(strconv.Itoa(r.ID))
		bw.WriteByte('\t')
		bw.WriteString(r.Name)
		bw.WriteByte('\t')
		bw.WriteString(r.Programme)
		bw.WriteByte('\t')
		bw.WriteString(FormatMark(r.Mark))
		bw.WriteByte('\n')
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write database: %w", err)
	}
	return nil
}

// ReadTSV decodes the native database format into dst. Lines that do not
// hold exactly four fields with a valid ID and Mark are skipped and listed in
// the report, as are duplicate ids.
func ReadTSV(r io.Reader, dst Inserter) (*ImportReport, error) {
	report := &ImportReport{}
	lines := newLineReader(r)

	n := 0
	for {
		raw, err := lines.next()
		if err == io.EOF {
			break
		}
		if err != nil && !errors.Is(err, errLineTooLong) {
			return report, fmt.Errorf("failed to read database: %w", err)
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

		parts := strings.Split(line, "\t")
		if len(parts) != 4 {
			report.Reject(n, fmt.Errorf("%w: want 4 fields, got %d", ErrMalformedLine, len(parts)))
			continue
		}

		rec, err := fieldsToRecord([4]string{parts[0], parts[1], parts[2], parts[3]})
		if err != nil {
			report.Reject(n, err)
			continue
		}
		if err := report.Insert(dst, rec); err != nil {
			return report, fmt.Errorf("line %d: %w", n, err)
		}
	}

	return report, nil
}
