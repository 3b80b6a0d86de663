package shell

import (
	"context"
	"errors"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/ssargent/classdb/pkg/codec"
	"github.com/ssargent/classdb/pkg/files"
	"github.com/ssargent/classdb/pkg/storage"
	"github.com/ssargent/classdb/pkg/store"
)

func (s *Session) writeFile(op, name string, fn func(io.Writer) error) (string, int64, error) {
	path, size, err := s.files.WriteFile(name, fn)
	s.metrics.RecordFileOperation(op, err == nil, size)
	if err == nil {
		s.log.Info().
			Str("op", op).
			Str("path", path).
			Stringer("compression", files.CompressionFor(path)).
			Int64("bytes", size).
			Msg("file written")
	}
	return path, size, err
}

func (s *Session) readFile(op, name string, fn func(io.Reader) error) (string, error) {
	path, err := s.files.ReadFile(name, fn)
	s.metrics.RecordFileOperation(op, err == nil, 0)
	return path, err
}

func (s *Session) logReport(source string, report *codec.ImportReport) {
	s.metrics.RecordImport(report.Imported, len(report.Duplicates), report.Headers, len(report.Malformed))

	for _, le := range report.Malformed {
		s.log.Warn().Str("source", source).Int("line", le.Line).Err(le.Err).Msg("skipped malformed line")
	}
	for _, id := range report.Duplicates {
		s.log.Warn().Str("source", source).Int("id", id).Msg("skipped duplicate id")
	}
}

func (s *Session) printReport(report *codec.ImportReport) {
	if report.Skipped() == 0 {
		s.printf("%d record(s) imported.", report.Imported)
		return
	}
	s.printf("%d record(s) imported, %d duplicate id(s) and %d malformed line(s) skipped.",
		report.Imported, len(report.Duplicates), len(report.Malformed))
}

func (s *Session) open(_ context.Context, req request) error {
	if req.rest == "" {
		return fail("Please provide a filename.")
	}

	loaded := store.NewStore()
	var report *codec.ImportReport
	path, err := s.readFile("open", req.rest, func(r io.Reader) error {
		var err error
		report, err = codec.ReadTSV(r, loaded)
		return err
	})
	if err != nil {
		return ioFail(err, "Failed to open file \"%s\"", req.rest)
	}

	s.store.Replace(loaded)
	s.lastDatabase = req.rest
	s.logReport(path, report)

	s.printf("The database file \"%s\" is successfully opened.", req.rest)
	if len(report.Malformed) > 0 || len(report.Duplicates) > 0 {
		s.printReport(report)
	}
	return nil
}

func (s *Session) save(_ context.Context, req request) error {
	name := req.rest
	if name == "" {
		name = s.lastDatabase
	}
	if name == "" {
		return fail("Failed to save. Please OPEN a file first or provide a filename.")
	}

	path, size, err := s.writeFile("save", name, func(w io.Writer) error {
		return codec.WriteTSV(w, s.store.Records())
	})
	if err != nil {
		return ioFail(err, "Failed to save \"%s\"", name)
	}

	s.lastDatabase = name
	s.printf("The database file is successfully saved to \"%s\" (%s).", path, humanize.Bytes(uint64(size)))
	return nil
}

func (s *Session) exportCSV(_ context.Context, req request) error {
	if req.rest == "" {
		return fail("Please provide CSV filename.")
	}

	_, size, err := s.writeFile("export_csv", req.rest, func(w io.Writer) error {
		return codec.WriteCSV(w, s.store.Records())
	})
	if err != nil {
		return ioFail(err, "Failed to export CSV")
	}

	s.printf("CSV exported to \"%s\" (%s).", req.rest, humanize.Bytes(uint64(size)))
	return nil
}

func (s *Session) exportSQL(_ context.Context, req request) error {
	if req.rest == "" {
		return fail("Please provide SQL filename.")
	}

	_, size, err := s.writeFile("export_sql", req.rest, func(w io.Writer) error {
		return codec.WriteSQL(w, s.store.Records())
	})
	if err != nil {
		return ioFail(err, "Failed to export SQL")
	}

	s.printf("SQL exported to \"%s\" (%s).", req.rest, humanize.Bytes(uint64(size)))
	return nil
}

func (s *Session) exportSQLite(ctx context.Context, req request) error {
	if req.rest == "" {
		return fail("Please provide SQLite filename.")
	}

	path := s.files.WritePath(req.rest)
	err := storage.ExportSQLite(ctx, path, s.store.Records())
	s.metrics.RecordFileOperation("export_sqlite", err == nil, 0)
	if err != nil {
		return ioFail(err, "Failed to export SQLite")
	}

	s.printf("SQLite database exported to \"%s\".", req.rest)
	return nil
}

func (s *Session) exportPebble(_ context.Context, req request) error {
	if req.rest == "" {
		return fail("Please provide archive directory.")
	}

	archive, err := s.openArchive(s.files.WritePath(req.rest))
	if err != nil {
		s.metrics.RecordFileOperation("export_pebble", false, 0)
		return ioFail(err, "Failed to export archive")
	}
	defer archive.Close()

	id, err := archive.Export(s.store.Records())
	s.metrics.RecordFileOperation("export_pebble", err == nil, 0)
	if err != nil {
		return ioFail(err, "Failed to export archive")
	}

	s.printf("Archive exported to \"%s\" (export %s).", req.rest, id)
	return nil
}

func (s *Session) importCSV(_ context.Context, req request) error {
	if req.rest == "" {
		return fail("Please provide CSV filename.")
	}

	staged := s.store.Clone()
	var report *codec.ImportReport
	path, err := s.readFile("import_csv", req.rest, func(r io.Reader) error {
		var err error
		report, err = codec.ReadCSV(r, staged)
		return err
	})
	if report != nil {
		s.logReport(path, report)
	}
	if err != nil {
		if errors.Is(err, codec.ErrEmptyInput) {
			return fail("Failed to import CSV. The file is empty.")
		}
		return ioFail(err, "Failed to import CSV")
	}

	s.store.Replace(staged)
	s.printf("CSV imported from \"%s\".", req.rest)
	s.printReport(report)
	return nil
}

func (s *Session) importPebble(_ context.Context, req request) error {
	if req.rest == "" {
		return fail("Please provide archive directory.")
	}

	path, err := s.files.Locate(req.rest)
	if err != nil {
		s.metrics.RecordFileOperation("import_pebble", false, 0)
		return ioFail(err, "Failed to import archive")
	}

	archive, err := s.openArchive(path)
	if err != nil {
		s.metrics.RecordFileOperation("import_pebble", false, 0)
		return ioFail(err, "Failed to import archive")
	}
	defer archive.Close()

	staged := s.store.Clone()
	report, err := archive.Import(staged)
	s.metrics.RecordFileOperation("import_pebble", err == nil, 0)
	if report != nil {
		s.logReport(path, report)
	}
	if err != nil {
		return ioFail(err, "Failed to import archive")
	}

	s.store.Replace(staged)
	s.printf("Archive imported from \"%s\".", req.rest)
	s.printReport(report)
	return nil
}
