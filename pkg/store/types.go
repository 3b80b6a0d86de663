package store

const (
	// MaxFieldLength is the number of bytes kept for Name and Programme.
	// Longer values are cut silently on insert and update.
	MaxFieldLength = 127

	// InitialCapacity is the number of records a new store has room for
	// before it first grows.
	InitialCapacity = 128
)

// Record is one student row in the StudentRecords table
type Record struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Programme string  `json:"programme"`
	Mark      float32 `json:"mark"`
}

// Patch carries the optional fields of an update. Nil fields are left alone.
type Patch struct {
	Name      *string
	Programme *string
	Mark      *float32
}

// Empty reports whether the patch would change nothing.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Programme == nil && p.Mark == nil
}

// SortKey selects the column a snapshot is ordered by
type SortKey int

const (
	SortNone SortKey = iota
	SortByID
	SortByMark
)

// Direction selects ascending or descending snapshot order
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// Field names a searchable text column
type Field int

const (
	FieldName Field = iota
	FieldProgramme
)

func (f Field) String() string {
	if f == FieldProgramme {
		return "PROGRAMME"
	}
	return "NAME"
}

// Summary holds the aggregate statistics of a non-empty store
type Summary struct {
	Count   int     `json:"count"`
	Average float32 `json:"average"`
	Highest Record  `json:"highest"`
	Lowest  Record  `json:"lowest"`
}

// Errors
var (
	ErrDuplicateID = &StoreError{"record with this ID already exists"}
	ErrNotFound    = &StoreError{"record not found"}
)

// StoreError represents a record store error
type StoreError struct {
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}
