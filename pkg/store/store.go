package store

import (
	"cmp"
	"slices"

	"github.com/ssargent/classdb/pkg/textutil"
)

// Store is the in-memory StudentRecords table. Records keep insertion order
// and ids are unique. A Store is owned by a single session and is not safe
// for concurrent use.
type Store struct {
	records []Record
}

// NewStore creates an empty store with InitialCapacity room
func NewStore() *Store {
	return &Store{
		records: make([]Record, 0, InitialCapacity),
	}
}

// Len returns the number of records
func (s *Store) Len() int {
	return len(s.records)
}

func (s *Store) indexOf(id int) int {
	for i := range s.records {
		if s.records[i].ID == id {
			return i
		}
	}
	return -1
}

// Insert appends r unless a record with the same id already exists
func (s *Store) Insert(r Record) error {
	if s.indexOf(r.ID) != -1 {
		return ErrDuplicateID
	}

	r.Name = textutil.Truncate(r.Name, MaxFieldLength)
	r.Programme = textutil.Truncate(r.Programme, MaxFieldLength)
	s.records = append(s.records, r)
	return nil
}

// Contains reports whether a record with id exists
func (s *Store) Contains(id int) bool {
	return s.indexOf(id) != -1
}

// Find returns a copy of the record with id
func (s *Store) Find(id int) (Record, bool) {
	i := s.indexOf(id)
	if i == -1 {
		return Record{}, false
	}
	return s.records[i], true
}

// Update replaces the fields set in p on the record with id
func (s *Store) Update(id int, p Patch) error {
	i := s.indexOf(id)
	if i == -1 {
		return ErrNotFound
	}

	r := &s.records[i]
	if p.Name != nil {
		r.Name = textutil.Truncate(*p.Name, MaxFieldLength)
	}
	if p.Programme != nil {
		r.Programme = textutil.Truncate(*p.Programme, MaxFieldLength)
	}
	if p.Mark != nil {
		r.Mark = *p.Mark
	}
	return nil
}

// Delete removes the record with id. Later records shift one place towards
// the front so the survivors keep their relative order.
func (s *Store) Delete(id int) error {
	i := s.indexOf(id)
	if i == -1 {
		return ErrNotFound
	}
	s.records = slices.Delete(s.records, i, i+1)
	return nil
}

// Records returns a copy of all records in store order
func (s *Store) Records() []Record {
	return slices.Clone(s.records)
}

// Reset drops every record but keeps the allocated room
func (s *Store) Reset() {
	s.records = s.records[:0]
}

// Replace swaps in the contents of other, leaving other empty
func (s *Store) Replace(other *Store) {
	s.records, other.records = other.records, make([]Record, 0, InitialCapacity)
}

// Clone returns an independent store holding the same records
func (s *Store) Clone() *Store {
	out := &Store{records: make([]Record, len(s.records), max(cap(s.records), InitialCapacity))}
	copy(out.records, s.records)
	return out
}

// Snapshot returns a sorted copy of the records. Sorting is stable in both
// directions: records with equal keys keep their store order.
func (s *Store) Snapshot(key SortKey, dir Direction) []Record {
	out := s.Records()

	var compare func(a, b Record) int
	switch key {
	case SortByID:
		compare = func(a, b Record) int { return cmp.Compare(a.ID, b.ID) }
	case SortByMark:
		compare = func(a, b Record) int { return cmp.Compare(a.Mark, b.Mark) }
	default:
		if dir == Descending {
			slices.Reverse(out)
		}
		return out
	}

	if dir == Descending {
		slices.SortStableFunc(out, func(a, b Record) int { return compare(b, a) })
	} else {
		slices.SortStableFunc(out, compare)
	}
	return out
}

// Search returns the records whose field contains needle, ignoring case
func (s *Store) Search(field Field, needle string) []Record {
	var hits []Record
	for _, r := range s.records {
		value := r.Name
		if field == FieldProgramme {
			value = r.Programme
		}
		if textutil.ContainsFold(value, needle) {
			hits = append(hits, r)
		}
	}
	return hits
}

// Summary computes count, average, highest and lowest mark. The first
// record wins ties. ok is false for an empty store.
func (s *Store) Summary() (sum Summary, ok bool) {
	if len(s.records) == 0 {
		return Summary{}, false
	}

	var total float32
	highest, lowest := 0, 0
	for i, r := range s.records {
		total += r.Mark
		if r.Mark < s.records[lowest].Mark {
			lowest = i
		}
		if r.Mark > s.records[highest].Mark {
			highest = i
		}
	}

	return Summary{
		Count:   len(s.records),
		Average: total / float32(len(s.records)),
		Highest: s.records[highest],
		Lowest:  s.records[lowest],
	}, true
}
