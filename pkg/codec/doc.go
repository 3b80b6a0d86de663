// Package codec provides record serialization and deserialization for classdb.
//
// Every format maps a store.Record to the same four fields in fixed order:
// ID, Name, Programme, Mark. Marks are always written with exactly one
// fractional digit and ids as plain decimal integers.
//
// # Native Format (TSV)
//
// The native database file holds one record per line, tab separated, with no
// header, quoting or escaping:
//
//	2301234<TAB>Brian<TAB>Digital Supply Chain<TAB>88.8
//
// Field values must not contain a tab or a newline. This is not validated.
//
// # CSV Format
//
// CSV files start with the header ID,Name,Programme,Mark and quote the two
// text columns, doubling any embedded double quote:
//
//	ID,Name,Programme,Mark
//	7,"A ""B""","X",9.5
//
// The reader accepts bare or quoted fields, skips blank lines and any line
// equal to the header (case-insensitively, wherever it appears), and skips
// malformed lines without aborting the import. Skipped lines are listed in
// the returned ImportReport.
//
// # SQL Script
//
// SQLStatements and WriteSQL produce a DROP/CREATE/INSERT script for a
// StudentRecords table, doubling single quotes inside string literals. The
// script is write-only.
//
// # Binary Records
//
// RecordCodec encodes a single record into a compact binary value used by the
// key-value archive:
//
//	[CRC32(4)][ID(4)][Mark(4)][NameSize(2)][ProgrammeSize(2)][Name][Programme]
//
// All integers are little-endian and the mark is stored as IEEE-754 bits.
// The CRC32 covers every byte after the CRC field, so Decode detects any
// corruption in the header or the text.
//
// # Usage
//
//	var buf bytes.Buffer
//	if err := codec.WriteCSV(&buf, s.Records()); err != nil {
//	    return err
//	}
//
//	report, err := codec.ReadCSV(&buf, other)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(report.Imported, len(report.Malformed))
package codec
