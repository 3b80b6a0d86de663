package codec

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ssargent/classdb/pkg/store"
)

// SQLTable is the table name used by the SQL script
const SQLTable = "StudentRecords"

const sqlBanner = "-- SQL dump generated by CMS"

const sqlCreate = `CREATE TABLE StudentRecords (
  id INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  programme TEXT NOT NULL,
  mark REAL NOT NULL
);`

func sqlString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// SQLStatements returns the statements that recreate the table with the
// given records: DROP, CREATE, then one INSERT per record.
func SQLStatements(records []store.Record) []string {
	stmts := make([]string, 0, len(records)+2)
	stmts = append(stmts, "DROP TABLE IF EXISTS "+SQLTable+";", sqlCreate)

	for _, r := range records {
		stmts = append(stmts, fmt.Sprintf(
			"INSERT INTO %s(id,name,programme,mark) VALUES(%d,%s,%s,%s);",
			SQLTable, r.ID, sqlString(r.Name), sqlString(r.Programme), FormatMark(r.Mark)))
	}
	return stmts
}

// WriteSQL writes the SQL script for records
func WriteSQL(w io.Writer, records []store.Record) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(sqlBanner + "\n")
	for _, stmt := range SQLStatements(records) {
		bw.WriteString(stmt)
		bw.WriteByte('\n')
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write sql: %w", err)
	}
	return nil
}
