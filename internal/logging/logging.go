// Package logging builds the component loggers used across scenenav.
//
// Output goes to a size-rotated file and, in verbose mode, to stderr as
// well. Components receive a *log.Logger with a "[component] " prefix.
package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the log sink.
type Options struct {
	// File is the log file path. Empty disables file logging.
	File string

	// MaxSizeMB is the size at which the file is rotated.
	MaxSizeMB int

	// MaxBackups is how many rotated files are kept.
	MaxBackups int

	// Verbose also writes to Stderr.
	Verbose bool

	// Stderr receives verbose output. Defaults to os.Stderr.
	Stderr io.Writer
}

// Sink is the shared destination for all component loggers.
type Sink struct {
	w    io.Writer
	file *lumberjack.Logger
}

// NewSink opens the sink described by opts.
func NewSink(opts Options) *Sink {
	var writers []io.Writer
	s := &Sink{}

	if opts.File != "" {
		_ = os.MkdirAll(filepath.Dir(opts.File), 0755)
		s.file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
		}
		writers = append(writers, s.file)
	}

	if opts.Verbose {
		stderr := opts.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		writers = append(writers, stderr)
	}

	switch len(writers) {
	case 0:
		s.w = io.Discard
	case 1:
		s.w = writers[0]
	default:
		s.w = io.MultiWriter(writers...)
	}
	return s
}

// Logger returns a logger for component.
func (s *Sink) Logger(component string) *log.Logger {
	return log.New(s.w, "["+component+"] ", log.LstdFlags)
}

// Close flushes and closes the log file, if any.
func (s *Sink) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}
