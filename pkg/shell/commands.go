package shell

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ssargent/classdb/pkg/args"
	"github.com/ssargent/classdb/pkg/codec"
	"github.com/ssargent/classdb/pkg/store"
	"github.com/ssargent/classdb/pkg/textutil"
)

type request struct {
	line  string // trimmed input
	upper string // line with ASCII letters upper-cased
	rest  string // text after the verb, leading whitespace skipped
}

type command struct {
	prefix string
	name   string
	run    func(s *Session, ctx context.Context, req request) error
}

// Verbs are matched by prefix in this order, so a verb that extends
// another must come first.
var commands = []command{
	{prefix: "HELP", name: "HELP", run: (*Session).help},
	{prefix: "OPEN", name: "OPEN", run: (*Session).open},
	{prefix: "SAVE", name: "SAVE", run: (*Session).save},
	{prefix: "SHOW ALL", name: "SHOW ALL", run: (*Session).showAll},
	{prefix: "INSERT", name: "INSERT", run: (*Session).insert},
	{prefix: "QUERY", name: "QUERY", run: (*Session).query},
	{prefix: "UPDATE", name: "UPDATE", run: (*Session).update},
	{prefix: "DELETE", name: "DELETE", run: (*Session).delete},
	{prefix: "SHOW SUMMARY", name: "SHOW SUMMARY", run: (*Session).summary},
	{prefix: "EXPORT CSV", name: "EXPORT CSV", run: (*Session).exportCSV},
	{prefix: "EXPORT SQLITE", name: "EXPORT SQLITE", run: (*Session).exportSQLite},
	{prefix: "EXPORT SQL", name: "EXPORT SQL", run: (*Session).exportSQL},
	{prefix: "EXPORT PEBBLE", name: "EXPORT PEBBLE", run: (*Session).exportPebble},
	{prefix: "IMPORT CSV", name: "IMPORT CSV", run: (*Session).importCSV},
	{prefix: "IMPORT PEBBLE", name: "IMPORT PEBBLE", run: (*Session).importPebble},
	{prefix: "FIND NAME", name: "FIND NAME", run: (*Session).findName},
	{prefix: "FIND PROGRAMME", name: "FIND PROGRAMME", run: (*Session).findProgramme},
	{prefix: "BACKUP", name: "BACKUP", run: (*Session).backup},
}

var unknown = command{
	name: "UNKNOWN",
	run: func(*Session, context.Context, request) error {
		return fail("Unknown command. Type HELP.")
	},
}

func lookup(upper string) command {
	for _, c := range commands {
		if strings.HasPrefix(upper, c.prefix) {
			return c
		}
	}
	return unknown
}

func (s *Session) help(context.Context, request) error {
	_, err := io.WriteString(s.out, helpText)
	return err
}

// requireArgs checks keys in order and names the first one that is absent
func requireArgs(set args.Set, keys ...string) error {
	for _, key := range keys {
		err := set[key].Err
		switch {
		case err == nil:
		case errors.Is(err, args.ErrUnterminatedQuote):
			return fail("Unterminated quote in %s=", key)
		default:
			return fail("Missing %s=", key)
		}
	}
	return nil
}

func numberFailure(err error) error {
	if errors.Is(err, args.ErrInvalidInteger) {
		return fail("Invalid ID.")
	}
	return fail("Invalid Mark.")
}

func (s *Session) requireID(set args.Set) (int, error) {
	if err := requireArgs(set, args.KeyID); err != nil {
		return 0, err
	}
	id, err := set.Int(args.KeyID)
	if err != nil {
		return 0, numberFailure(err)
	}
	return id, nil
}

func (s *Session) insert(_ context.Context, req request) error {
	set := args.Parse(req.line)
	if err := requireArgs(set, args.Keys...); err != nil {
		return err
	}

	rec, err := set.Record()
	if err != nil {
		return numberFailure(err)
	}

	if err := s.store.Insert(rec); err != nil {
		if errors.Is(err, store.ErrDuplicateID) {
			return fail("The record with ID=%d already exists.", rec.ID)
		}
		return err
	}

	s.printf("A new record with ID=%d is successfully inserted.", rec.ID)
	return nil
}

func (s *Session) query(_ context.Context, req request) error {
	id, err := s.requireID(args.Parse(req.line))
	if err != nil {
		return err
	}

	rec, ok := s.store.Find(id)
	if !ok {
		return fail("The record with ID=%d does not exist.", id)
	}

	s.printf("The record with ID=%d is found in the data table.", id)
	return s.renderRecords([]store.Record{rec})
}

func (s *Session) update(_ context.Context, req request) error {
	set := args.Parse(req.line)
	id, err := s.requireID(set)
	if err != nil {
		return err
	}

	for _, key := range []string{args.KeyName, args.KeyProgramme, args.KeyMark} {
		if errors.Is(set[key].Err, args.ErrUnterminatedQuote) {
			return fail("Unterminated quote in %s=", key)
		}
	}

	patch, err := set.Patch()
	if err != nil {
		return numberFailure(err)
	}

	if err := s.store.Update(id, patch); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fail("The record with ID=%d does not exist.", id)
		}
		return err
	}

	s.printf("The record with ID=%d is successfully updated.", id)
	return nil
}

func (s *Session) delete(_ context.Context, req request) error {
	id, err := s.requireID(args.Parse(req.line))
	if err != nil {
		return err
	}

	if !s.store.Contains(id) {
		return fail("The record with ID=%d does not exist.", id)
	}

	if !s.cfg.AssumeYes {
		io.WriteString(s.out, "CMS: Type Y to Confirm or N to cancel: ")
		answer, ok := s.readLine()
		if !ok {
			io.WriteString(s.out, "\n")
			return nil
		}
		answer = textutil.Trim(answer)
		if answer == "" || (answer[0] != 'Y' && answer[0] != 'y') {
			s.printf("Delete cancelled.")
			return nil
		}
	}

	if err := s.store.Delete(id); err != nil {
		return fail("Delete failed.")
	}

	s.printf("The record with ID=%d is successfully deleted.", id)
	return nil
}

func (s *Session) showAll(_ context.Context, req request) error {
	key, dir := store.SortNone, store.Ascending
	switch {
	case strings.Contains(req.upper, "SORT BY ID"):
		key = store.SortByID
	case strings.Contains(req.upper, "SORT BY MARK"):
		key = store.SortByMark
	}
	if key != store.SortNone && strings.Contains(req.upper, "DESC") {
		dir = store.Descending
	}

	s.printf("Here are all the records found in the table \"%s\".", codec.SQLTable)
	return s.renderRecords(s.store.Snapshot(key, dir))
}

func (s *Session) summary(context.Context, request) error {
	sum, ok := s.store.Summary()
	if !ok {
		s.printf("No records loaded.")
		return nil
	}
	return s.renderSummary(sum)
}

func (s *Session) find(field store.Field, req request) error {
	needle := textutil.Unquote(req.rest)
	if needle == "" {
		return fail("Please provide a search string.")
	}

	matches := s.store.Search(field, needle)
	s.printf("Search results for %s contains \"%s\":", field, needle)
	if len(matches) == 0 && !s.jsonOutput() {
		io.WriteString(s.out, "(no matches)\n")
		return nil
	}
	return s.renderRecords(matches)
}

func (s *Session) findName(_ context.Context, req request) error {
	return s.find(store.FieldName, req)
}

func (s *Session) findProgramme(_ context.Context, req request) error {
	return s.find(store.FieldProgramme, req)
}

func (s *Session) backup(context.Context, request) error {
	if s.lastDatabase == "" {
		return fail("Backup failed. Please OPEN and SAVE first.")
	}

	name := BackupName(s.lastDatabase, s.now())
	path, size, err := s.writeFile("backup", name, func(w io.Writer) error {
		return codec.WriteTSV(w, s.store.Records())
	})
	if err != nil {
		return ioFail(err, "Backup failed")
	}

	s.printf("Backup file created: \"%s\" (%s).", path, humanize.Bytes(uint64(size)))
	return nil
}
