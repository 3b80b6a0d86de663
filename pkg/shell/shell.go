// Package shell implements the interactive command session. A Session owns
// one record table and turns each input line into a store, codec or file
// operation, printing the outcome.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/ssargent/classdb/pkg/config"
	"github.com/ssargent/classdb/pkg/files"
	"github.com/ssargent/classdb/pkg/metrics"
	"github.com/ssargent/classdb/pkg/storage"
	"github.com/ssargent/classdb/pkg/store"
	"github.com/ssargent/classdb/pkg/textutil"
)

// ErrAuthFailed is returned when the password gate is not passed
var ErrAuthFailed = &ShellError{"too many invalid password attempts"}

// ShellError represents a session error
type ShellError struct {
	Message string
}

func (e *ShellError) Error() string {
	return e.Message
}

// Options configures a Session. Zero fields get working defaults.
type Options struct {
	Store   *store.Store
	Files   *files.Resolver
	Config  *config.Config
	Out     io.Writer
	Logger  *zerolog.Logger
	Metrics *metrics.Metrics
	Now     func() time.Time

	// OpenArchive opens a pebble archive directory
	OpenArchive func(path string) (*storage.Archive, error)

	// Interactive sessions print prompts. Non-interactive ones skip lines
	// starting with '#'.
	Interactive bool

	// Password, when set, answers the password gate instead of prompting
	Password string
}

// Session is a single user session over one record table
type Session struct {
	store       *store.Store
	files       *files.Resolver
	cfg         *config.Config
	out         io.Writer
	in          *bufio.Scanner
	log         zerolog.Logger
	metrics     *metrics.Metrics
	now         func() time.Time
	openArchive func(path string) (*storage.Archive, error)
	interactive bool
	password    string

	lastDatabase string
}

// New creates a session
func New(opts Options) *Session {
	s := &Session{
		store:       opts.Store,
		files:       opts.Files,
		cfg:         opts.Config,
		out:         opts.Out,
		metrics:     opts.Metrics,
		now:         opts.Now,
		openArchive: opts.OpenArchive,
		interactive: opts.Interactive,
		password:    opts.Password,
	}

	if s.cfg == nil {
		s.cfg = config.DefaultConfig()
	}
	if s.store == nil {
		s.store = store.NewStore()
	}
	if s.files == nil {
		s.files = files.NewResolver(afero.NewOsFs(), s.cfg.DataDir)
	}
	if s.out == nil {
		s.out = io.Discard
	}
	if opts.Logger != nil {
		s.log = *opts.Logger
	} else {
		s.log = zerolog.Nop()
	}
	if s.metrics == nil {
		s.metrics = metrics.NewMetrics()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.openArchive == nil {
		s.openArchive = func(path string) (*storage.Archive, error) {
			return storage.OpenArchive(path, nil)
		}
	}

	return s
}

// Store returns the session's record table
func (s *Session) Store() *store.Store {
	return s.store
}

// LastDatabase returns the database name SAVE and BACKUP default to
func (s *Session) LastDatabase() string {
	return s.lastDatabase
}

func (s *Session) printf(format string, a ...any) {
	fmt.Fprintf(s.out, "CMS: "+format+"\n", a...)
}

func (s *Session) readLine() (string, bool) {
	if s.in == nil || !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}

// Authenticate runs the password gate, reading answers from the session
// input unless a password was supplied up front.
func (s *Session) Authenticate() error {
	sec := s.cfg.Security
	if !sec.RequirePassword {
		return nil
	}

	if s.password != "" {
		if s.password == sec.Password {
			s.log.Debug().Msg("password accepted")
			return nil
		}
		s.printf("Incorrect password.")
		s.log.Warn().Msg("supplied password rejected")
		return ErrAuthFailed
	}

	for attempt := 1; attempt <= sec.MaxAttempts; attempt++ {
		fmt.Fprintf(s.out, "Please enter database password to continue (attempt %d of %d): ", attempt, sec.MaxAttempts)

		answer, ok := s.readLine()
		if !ok {
			fmt.Fprintln(s.out)
			s.printf("Input error.")
			return ErrAuthFailed
		}

		if textutil.Trim(answer) == sec.Password {
			s.printf("Password accepted. Welcome to the Class Management System.\n")
			return nil
		}
		s.printf("Incorrect password.")
		s.log.Warn().Int("attempt", attempt).Msg("incorrect password")
	}

	s.printf("Too many invalid password attempts. Exiting program.")
	return ErrAuthFailed
}

// Run authenticates and then executes commands from in until EXIT, QUIT,
// end of input or cancellation.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	s.in = bufio.NewScanner(in)

	if err := s.Authenticate(); err != nil {
		return err
	}
	if s.cfg.Database != "" {
		s.Execute(ctx, "OPEN "+s.cfg.Database)
	}
	if s.interactive {
		fmt.Fprintf(s.out, "Type HELP for available commands.\n\n")
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.interactive {
			fmt.Fprintf(s.out, "%s: ", s.cfg.Prompt)
		}

		line, ok := s.readLine()
		if !ok {
			break
		}
		if !s.interactive && strings.HasPrefix(textutil.Trim(line), "#") {
			continue
		}
		if quit := s.Execute(ctx, line); quit {
			break
		}
	}

	if err := s.in.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

// Execute runs one command line and reports whether the session should end
func (s *Session) Execute(ctx context.Context, line string) bool {
	line = textutil.Trim(line)
	if line == "" {
		return false
	}

	upper := textutil.ToUpper(line)
	if upper == "EXIT" || upper == "QUIT" {
		return true
	}

	cmd := lookup(upper)
	req := request{
		line:  line,
		upper: upper,
		rest:  line[textutil.SkipSpace(line, len(cmd.prefix)):],
	}

	start := time.Now()
	err := cmd.run(s, ctx, req)
	elapsed := time.Since(start)

	s.metrics.RecordCommand(cmd.name, err == nil, elapsed)
	s.metrics.SetRecords(s.store.Len())

	if err != nil {
		s.report(cmd.name, err)
	}
	s.log.Debug().
		Str("command", cmd.name).
		Dur("duration", elapsed).
		Bool("ok", err == nil).
		Msg("command executed")

	return false
}

// failure is a command outcome shown to the user. A non-nil cause marks an
// I/O failure.
type failure struct {
	msg   string
	cause error
}

func (f *failure) Error() string {
	if f.cause != nil {
		return fmt.Sprintf("%s (%v).", f.msg, f.cause)
	}
	return f.msg
}

func (f *failure) Unwrap() error {
	return f.cause
}

func fail(format string, a ...any) error {
	return &failure{msg: fmt.Sprintf(format, a...)}
}

func ioFail(cause error, format string, a ...any) error {
	return &failure{msg: fmt.Sprintf(format, a...), cause: cause}
}

func (s *Session) report(command string, err error) {
	s.printf("%s", err)

	var f *failure
	if errors.As(err, &f) && f.cause == nil {
		return
	}
	s.log.Error().Err(err).Str("command", command).Msg("command failed")
}
