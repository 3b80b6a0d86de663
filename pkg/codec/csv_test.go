package codec

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/classdb/pkg/store"
)

func TestWriteCSV(t *testing.T) {
	records := []store.Record{
		{ID: 7, Name: `A "B"`, Programme: "X", Mark: 9.5},
		{ID: 8, Name: "Plain", Programme: "Y, Z", Mark: 70},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	expected := "ID,Name,Programme,Mark\n" +
		"7,\"A \"\"B\"\"\",\"X\",9.5\n" +
		"8,\"Plain\",\"Y, Z\",70.0\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, CSVHeader+"\n", buf.String())
}

func TestSplitCSVLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    [4]string
		wantErr bool
	}{
		{
			name: "quoted text fields",
			line: `1,"Alice","CS",90.0`,
			want: [4]string{"1", "Alice", "CS", "90.0"},
		},
		{
			name: "all bare",
			line: `1,Alice,CS,90.0`,
			want: [4]string{"1", "Alice", "CS", "90.0"},
		},
		{
			name: "doubled quotes",
			line: `7,"A ""B""","X",9.5`,
			want: [4]string{"7", `A "B"`, "X", "9.5"},
		},
		{
			name: "comma inside quotes",
			line: `2,"Lee, Bo","Art, Design",55`,
			want: [4]string{"2", "Lee, Bo", "Art, Design", "55"},
		},
		{
			name: "blanks around fields",
			line: "3,\t\"Eve\"  , \"Law\" ,  61.5  ",
			want: [4]string{"3", "Eve", "Law", "61.5  "},
		},
		{
			name: "empty quoted fields",
			line: `4,"","",0`,
			want: [4]string{"4", "", "", "0"},
		},
		{
			name: "quoted mark",
			line: `5,"N","P","12.5"`,
			want: [4]string{"5", "N", "P", "12.5"},
		},
		{
			name: "trailing carriage return",
			line: "6,\"N\",\"P\",\"1\"\r",
			want: [4]string{"6", "N", "P", "1"},
		},
		{
			name:    "too few fields",
			line:    `1,"Alice","CS"`,
			wantErr: true,
		},
		{
			name:    "unterminated quote in name",
			line:    `1,"Alice,"CS",90`,
			wantErr: true,
		},
		{
			name:    "unterminated quote in last field",
			line:    `1,"Alice","CS","90`,
			wantErr: true,
		},
		{
			name:    "text after closing quote",
			line:    `1,"Alice"x,"CS",90`,
			wantErr: true,
		},
		{
			name:    "text after last quoted field",
			line:    `1,"Alice","CS","90",extra`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitCSVLine(tt.line)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedLine)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadCSV_RoundTrip(t *testing.T) {
	records := []store.Record{
		{ID: 1, Name: "Alice", Programme: "Computer Science", Mark: 90},
		{ID: 2, Name: `Bob "the builder"`, Programme: "Civil, Eng", Mark: 72.5},
		{ID: -3, Name: "", Programme: "", Mark: 0.1},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	s := store.NewStore()
	report, err := ReadCSV(&buf, s)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Imported)
	assert.Equal(t, 1, report.Headers)
	assert.Zero(t, report.Skipped())
	assert.Equal(t, records, s.Records())
}

func TestReadCSV_QuoteDoublingIsStable(t *testing.T) {
	s := store.NewStore()
	require.NoError(t, s.Insert(store.Record{ID: 1, Name: `""x""`, Programme: `"`, Mark: 1}))

	var first bytes.Buffer
	require.NoError(t, WriteCSV(&first, s.Records()))

	reloaded := store.NewStore()
	_, err := ReadCSV(bytes.NewReader(first.Bytes()), reloaded)
	require.NoError(t, err)

	var second bytes.Buffer
	require.NoError(t, WriteCSV(&second, reloaded.Records()))
	assert.Equal(t, first.String(), second.String())
}

func TestReadCSV_SkipsDuplicates(t *testing.T) {
	s := store.NewStore()
	require.NoError(t, s.Insert(store.Record{ID: 1, Name: "Original", Programme: "P", Mark: 50}))

	input := "ID,Name,Programme,Mark\n" +
		"1,\"Replacement\",\"Q\",99.0\n" +
		"2,\"New\",\"R\",60.0\n" +
		"2,\"Again\",\"R\",61.0\n"

	report, err := ReadCSV(strings.NewReader(input), s)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, []int{1, 2}, report.Duplicates)

	rec, ok := s.Find(1)
	require.True(t, ok)
	assert.Equal(t, "Original", rec.Name)
	assert.Equal(t, 2, s.Len())
}

func TestReadCSV_SkipsMalformedAndContinues(t *testing.T) {
	input := "ID,Name,Programme,Mark\n" +
		"1,\"Alice\",\"CS\",90.0\n" +
		"2,\"Broken,\"CS\",80.0\n" +
		"\n" +
		"   \n" +
		"x,\"Bad id\",\"CS\",10\n" +
		"4,\"Bad mark\",\"CS\",abc\n" +
		"3,\"Carol\",\"Maths\",70.0\n"

	s := store.NewStore()
	report, err := ReadCSV(strings.NewReader(input), s)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Imported)
	require.Len(t, report.Malformed, 3)
	assert.Equal(t, 3, report.Malformed[0].Line)
	assert.Equal(t, 6, report.Malformed[1].Line)
	assert.Equal(t, 7, report.Malformed[2].Line)
	for _, le := range report.Malformed {
		assert.True(t, errors.Is(le, ErrMalformedLine))
	}

	ids := []int{}
	for _, r := range s.Records() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int{1, 3}, ids)
}

func TestReadCSV_HeaderAnywhere(t *testing.T) {
	input := "1,\"A\",\"P\",1.0\n" +
		"id,name,programme,mark\n" +
		"\"ID\",\"Name\",\"Programme\",\"Mark\"\n" +
		"2,\"B\",\"P\",2.0\n"

	s := store.NewStore()
	report, err := ReadCSV(strings.NewReader(input), s)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 2, report.Headers)
	assert.Empty(t, report.Malformed)
}

func TestReadCSV_EmptyInput(t *testing.T) {
	s := store.NewStore()
	_, err := ReadCSV(strings.NewReader(""), s)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	s := store.NewStore()
	report, err := ReadCSV(strings.NewReader(CSVHeader+"\n"), s)
	require.NoError(t, err)
	assert.Zero(t, report.Imported)
	assert.Zero(t, s.Len())
}

func TestReadCSV_TruncatesLongText(t *testing.T) {
	long := strings.Repeat("n", store.MaxFieldLength+20)
	input := "1,\"" + long + "\",\"P\",1.0\n"

	s := store.NewStore()
	_, err := ReadCSV(strings.NewReader(input), s)
	require.NoError(t, err)

	rec, ok := s.Find(1)
	require.True(t, ok)
	assert.Len(t, rec.Name, store.MaxFieldLength)
}

func TestReadCSV_OverlongLineIsSkipped(t *testing.T) {
	long := strings.Repeat("x", 2*maxLineSize)

	tests := []struct {
		name  string
		input string
		want  []int
	}{
		{
			name:  "middle",
			input: "1,\"A\",\"P\",1.0\n2,\"" + long + "\",\"P\",2.0\n3,\"C\",\"P\",3.0\n",
			want:  []int{1, 3},
		},
		{
			name:  "last without newline",
			input: "1,\"A\",\"P\",1.0\n2,\"" + long,
			want:  []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := store.NewStore()
			report, err := ReadCSV(strings.NewReader(tt.input), s)
			require.NoError(t, err)

			require.Len(t, report.Malformed, 1)
			assert.Equal(t, 2, report.Malformed[0].Line)
			assert.ErrorIs(t, report.Malformed[0], ErrMalformedLine)

			got := []int{}
			for _, r := range s.Records() {
				got = append(got, r.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadCSV_UnterminatedQuoteSkipsOnlyThatLine(t *testing.T) {
	input := "ID,Name,Programme,Mark\n" +
		"5,\"open,P,1.0\n" +
		"6,\"Closed\",\"P\",2.0\n"

	s := store.NewStore()
	report, err := ReadCSV(strings.NewReader(input), s)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Imported)
	require.Len(t, report.Malformed, 1)
	assert.Equal(t, 2, report.Malformed[0].Line)
	assert.ErrorIs(t, report.Malformed[0], ErrMalformedLine)
	assert.Contains(t, report.Malformed[0].Error(), "unterminated quote")

	assert.False(t, s.Contains(5))
	rec, ok := s.Find(6)
	require.True(t, ok)
	assert.Equal(t, "Closed", rec.Name)
}

func TestReadCSV_ReadErrorIsReturned(t *testing.T) {
	r := io.MultiReader(strings.NewReader("1,\"A\",\"P\",1.0\n"), iotest.ErrReader(io.ErrUnexpectedEOF))

	_, err := ReadCSV(r, store.NewStore())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
