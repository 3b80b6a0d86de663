// Package di provides dependency injection container
package di

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/afero"

	"github.com/ssargent/classdb/pkg/config"
	"github.com/ssargent/classdb/pkg/files"
	"github.com/ssargent/classdb/pkg/metrics"
	"github.com/ssargent/classdb/pkg/shell"
	"github.com/ssargent/classdb/pkg/storage"
)

// ArchiveOpener opens a pebble archive directory
type ArchiveOpener func(path string) (*storage.Archive, error)

// Container holds all the dependencies for the application
type Container struct {
	fs          afero.Fs
	now         func() time.Time
	logOutput   io.Writer
	metrics     *metrics.Metrics
	openArchive ArchiveOpener
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		fs:        afero.NewOsFs(),
		now:       time.Now,
		logOutput: os.Stderr,
		metrics:   metrics.NewMetrics(),
		openArchive: func(path string) (*storage.Archive, error) {
			return storage.OpenArchive(path, nil)
		},
	}
}

// GetFs returns the filesystem sessions read and write through
func (c *Container) GetFs() afero.Fs {
	return c.fs
}

// SetFs allows overriding the filesystem (for testing)
func (c *Container) SetFs(fs afero.Fs) {
	c.fs = fs
}

// SetClock allows overriding the clock used for backup names (for testing)
func (c *Container) SetClock(now func() time.Time) {
	c.now = now
}

// SetLogOutput sets where session logs are written
func (c *Container) SetLogOutput(w io.Writer) {
	c.logOutput = w
}

// SetArchiveOpener allows overriding how pebble archives are opened (for testing)
func (c *Container) SetArchiveOpener(open ArchiveOpener) {
	c.openArchive = open
}

// GetMetrics returns the metrics shared by every session
func (c *Container) GetMetrics() *metrics.Metrics {
	return c.metrics
}

// Resolver returns a file resolver rooted at dataDir
func (c *Container) Resolver(dataDir string) *files.Resolver {
	return files.NewResolver(c.fs, dataDir)
}

// SessionOptions are the per-session settings not held in the config
type SessionOptions struct {
	Out         io.Writer
	Interactive bool
	Password    string
}

// NewSession builds a shell session for cfg
func (c *Container) NewSession(cfg *config.Config, opts SessionOptions) (*shell.Session, error) {
	logger, _, err := shell.NewLogger(c.logOutput, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	resolver := c.Resolver(cfg.DataDir)
	logger.Debug().
		Str("data_dir", resolver.Dir()).
		Bool("interactive", opts.Interactive).
		Msg("session started")

	return shell.New(shell.Options{
		Files:       resolver,
		Config:      cfg,
		Out:         opts.Out,
		Logger:      &logger,
		Metrics:     c.metrics,
		Now:         c.now,
		OpenArchive: c.openArchive,
		Interactive: opts.Interactive,
		Password:    opts.Password,
	}), nil
}
