package args

import (
	"fmt"
	"strconv"

	"github.com/ssargent/classdb/pkg/store"
)

// Recognized argument keys
const (
	KeyID        = "ID"
	KeyName      = "Name"
	KeyProgramme = "Programme"
	KeyMark      = "Mark"
)

// NumberLimit bounds the text kept for numeric values
const NumberLimit = 63

// Keys lists the recognized keys in the order commands check them
var Keys = []string{KeyID, KeyName, KeyProgramme, KeyMark}

func limitFor(key string) int {
	switch key {
	case KeyName, KeyProgramme:
		return store.MaxFieldLength
	default:
		return NumberLimit
	}
}

// Result is the outcome of looking up one key
type Result struct {
	Value string
	Err   error
}

// Set maps each recognized key to its lookup result for one command line.
// It lives only for the command that produced it.
type Set map[string]Result

// Parse looks up every recognized key in line
func Parse(line string) Set {
	set := make(Set, len(Keys))
	for _, key := range Keys {
		value, err := Lookup(line, key, limitFor(key))
		set[key] = Result{Value: value, Err: err}
	}
	return set
}

// Has reports whether key was found with a usable value
func (s Set) Has(key string) bool {
	return s[key].Err == nil
}

// String returns the raw value of key
func (s Set) String(key string) (string, error) {
	r, ok := s[key]
	if !ok {
		return "", ErrMissing
	}
	return r.Value, r.Err
}

// Int returns the value of key as a 32-bit decimal integer
func (s Set) Int(key string) (int, error) {
	raw, err := s.String(key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrInvalidInteger, raw)
	}
	return int(v), nil
}

// Float32 returns the value of key as a 32-bit float
func (s Set) Float32(key string) (float32, error) {
	raw, err := s.String(key)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrInvalidFloat, raw)
	}
	return float32(v), nil
}

// Patch builds a store.Patch from the optional Name, Programme and Mark
// arguments. A malformed Name or Programme, or an unparsable Mark, is an
// error; missing arguments are simply left out.
func (s Set) Patch() (store.Patch, error) {
	var p store.Patch

	for _, key := range []string{KeyName, KeyProgramme} {
		value, err := s.String(key)
		switch {
		case err == nil:
			v := value
			if key == KeyName {
				p.Name = &v
			} else {
				p.Programme = &v
			}
		case err != ErrMissing:
			return store.Patch{}, fmt.Errorf("%s=: %w", key, err)
		}
	}

	if s.Has(KeyMark) {
		mark, err := s.Float32(KeyMark)
		if err != nil {
			return store.Patch{}, err
		}
		p.Mark = &mark
	} else if err := s[KeyMark].Err; err != nil && err != ErrMissing {
		return store.Patch{}, fmt.Errorf("%s=: %w", KeyMark, err)
	}

	return p, nil
}

// Record builds a full record, requiring all four arguments
func (s Set) Record() (store.Record, error) {
	for _, key := range Keys {
		if err := s[key].Err; err != nil {
			return store.Record{}, fmt.Errorf("%s=: %w", key, err)
		}
	}

	id, err := s.Int(KeyID)
	if err != nil {
		return store.Record{}, err
	}
	mark, err := s.Float32(KeyMark)
	if err != nil {
		return store.Record{}, err
	}

	return store.Record{
		ID:        id,
		Name:      s[KeyName].Value,
		Programme: s[KeyProgramme].Value,
		Mark:      mark,
	}, nil
}
