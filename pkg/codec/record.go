package codec

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"math"

	"github.com/ssargent/classdb/pkg/store"
)

// recordHeaderSize is CRC32(4) + ID(4) + Mark(4) + NameSize(2) + ProgrammeSize(2)
const recordHeaderSize = 16

// RecordCodec handles binary serialization of single records
type RecordCodec struct{}

// NewRecordCodec creates a new record codec instance
func NewRecordCodec() *RecordCodec {
	return &RecordCodec{}
}

// Size returns the encoded size of r
func (c *RecordCodec) Size(r store.Record) int {
	return recordHeaderSize + len(r.Name) + len(r.Programme)
}

// Encode serializes a record into the binary format
// Format: [CRC32(4)][ID(4)][Mark(4)][NameSize(2)][ProgrammeSize(2)][Name][Programme]
func (c *RecordCodec) Encode(r store.Record) ([]byte, error) {
	if len(r.Name) > math.MaxUint16 || len(r.Programme) > math.MaxUint16 {
		return nil, fmt.Errorf("record %d: text field too large", r.ID)
	}
	if r.ID < math.MinInt32 || r.ID > math.MaxInt32 {
		return nil, fmt.Errorf("record id %d out of range", r.ID)
	}

	buf := make([]byte, c.Size(r))
	binary.LittleEndian.PutUint32(buf[4:], uint32(int32(r.ID)))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(r.Mark))
	binary.LittleEndian.PutUint16(buf[12:], uint16(len(r.Name)))
	binary.LittleEndian.PutUint16(buf[14:], uint16(len(r.Programme)))
	copy(buf[recordHeaderSize:], r.Name)
	copy(buf[recordHeaderSize+len(r.Name):], r.Programme)

	binary.LittleEndian.PutUint32(buf[0:], crc32.ChecksumIEEE(buf[4:]))

	return buf, nil
}

// Decode deserializes a binary record, verifying its checksum
func (c *RecordCodec) Decode(data []byte) (store.Record, error) {
	if len(data) < recordHeaderSize {
		return store.Record{}, fmt.Errorf("%w: %d bytes is shorter than the header", ErrCorrupt, len(data))
	}

	nameSize := int(binary.LittleEndian.Uint16(data[12:14]))
	progSize := int(binary.LittleEndian.Uint16(data[14:16]))
	want := recordHeaderSize + nameSize + progSize
	if len(data) != want {
		return store.Record{}, fmt.Errorf("%w: size mismatch: %d != %d", ErrCorrupt, len(data), want)
	}

	stored := binary.LittleEndian.Uint32(data[0:4])
	if sum := crc32.ChecksumIEEE(data[4:]); sum != stored {
		return store.Record{}, fmt.Errorf("%w: CRC32 mismatch: %d != %d", ErrCorrupt, stored, sum)
	}

	nameEnd := recordHeaderSize + nameSize
	return store.Record{
		ID:        int(int32(binary.LittleEndian.Uint32(data[4:8]))),
		Mark:      math.Float32frombits(binary.LittleEndian.Uint32(data[8:12])),
		Name:      string(data[recordHeaderSize:nameEnd]),
		Programme: string(data[nameEnd:want]),
	}, nil
}
