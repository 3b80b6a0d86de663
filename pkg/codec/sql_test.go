package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/classdb/pkg/store"
)

func TestWriteSQL(t *testing.T) {
	records := []store.Record{
		{ID: 1, Name: "O'Brien", Programme: "CS", Mark: 80},
		{ID: 2, Name: "Lee", Programme: "Art's", Mark: 65.25},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSQL(&buf, records))

	expected := `-- SQL dump generated by CMS
DROP TABLE IF EXISTS StudentRecords;
CREATE TABLE StudentRecords (
  id INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  programme TEXT NOT NULL,
  mark REAL NOT NULL
);
INSERT INTO StudentRecords(id,name,programme,mark) VALUES(1,'O''Brien','CS',80.0);
INSERT INTO StudentRecords(id,name,programme,mark) VALUES(2,'Lee','Art''s',65.2);
`
	assert.Equal(t, expected, buf.String())
}

func TestSQLStatements_Empty(t *testing.T) {
	stmts := SQLStatements(nil)
	require.Len(t, stmts, 2)
	assert.Equal(t, "DROP TABLE IF EXISTS StudentRecords;", stmts[0])
	assert.Contains(t, stmts[1], "CREATE TABLE StudentRecords")
}
