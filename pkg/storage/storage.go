package storage

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/classdb/pkg/codec"
	"github.com/ssargent/classdb/pkg/store"
)

var (
	recordPrefix = []byte("student/")
	recordEnd    = []byte("student0")
	exportKey    = []byte("meta/export")
)

// ErrNoExport is returned when an archive has never been written
var ErrNoExport = errors.New("archive has no export")

// Archive keeps a copy of the record table in a pebble database. Records are
// keyed by their position so an import restores the exported order.
type Archive struct {
	db    *pebble.DB
	codec *codec.RecordCodec
}

// OpenArchive opens or creates the archive at path. opts may be nil.
func OpenArchive(path string, opts *pebble.Options) (*Archive, error) {
	if opts == nil {
		opts = &pebble.Options{}
	}
	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %q: %w", path, err)
	}
	return &Archive{db: db, codec: codec.NewRecordCodec()}, nil
}

func recordKey(seq uint32) []byte {
	key := make([]byte, len(recordPrefix)+4)
	copy(key, recordPrefix)
	binary.BigEndian.PutUint32(key[len(recordPrefix):], seq)
	return key
}

// Export replaces the archived records with records and stamps the archive
// with a new export id.
func (a *Archive) Export(records []store.Record) (ksuid.KSUID, error) {
	batch := a.db.NewBatch()
	defer batch.Close()

	if err := batch.DeleteRange(recordPrefix, recordEnd, nil); err != nil {
		return ksuid.Nil, fmt.Errorf("failed to clear archive: %w", err)
	}

	for i, r := range records {
		value, err := a.codec.Encode(r)
		if err != nil {
			return ksuid.Nil, err
		}
		if err := batch.Set(recordKey(uint32(i)), value, nil); err != nil {
			return ksuid.Nil, fmt.Errorf("failed to stage record %d: %w", r.ID, err)
		}
	}

	id := ksuid.New()
	if err := batch.Set(exportKey, id.Bytes(), nil); err != nil {
		return ksuid.Nil, fmt.Errorf("failed to stage export id: %w", err)
	}

	if err := batch.Commit(pebble.Sync); err != nil {
		return ksuid.Nil, fmt.Errorf("failed to commit archive: %w", err)
	}
	return id, nil
}

// LastExport returns the id of the most recent Export
func (a *Archive) LastExport() (ksuid.KSUID, error) {
	data, closer, err := a.db.Get(exportKey)
	if errors.Is(err, pebble.ErrNotFound) {
		return ksuid.Nil, ErrNoExport
	}
	if err != nil {
		return ksuid.Nil, err
	}
	defer closer.Close()

	return ksuid.FromBytes(data)
}

// Import inserts every archived record into dst in archive order. Values
// that fail their checksum are skipped and reported by position.
func (a *Archive) Import(dst codec.Inserter) (*codec.ImportReport, error) {
	iter, err := a.db.NewIter(&pebble.IterOptions{
		LowerBound: recordPrefix,
		UpperBound: recordEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}
	defer iter.Close()

	report := &codec.ImportReport{}
	pos := 0
	for iter.First(); iter.Valid(); iter.Next() {
		pos++
		rec, err := a.codec.Decode(iter.Value())
		if err != nil {
			report.Reject(pos, err)
			continue
		}
		if err := report.Insert(dst, rec); err != nil {
			return report, err
		}
	}
	if err := iter.Error(); err != nil {
		return report, fmt.Errorf("failed to read archive: %w", err)
	}

	return report, nil
}

// Close closes the underlying database
func (a *Archive) Close() error {
	return a.db.Close()
}
