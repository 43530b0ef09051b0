// Package logger wraps logrus with component-tagged entries and optional
// file rotation.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Fields is an alias so callers need not import logrus.
type Fields = logrus.Fields

// Log wraps logrus.Logger.
type Log struct {
	*logrus.Logger
}

// Entry wraps logrus.Entry.
type Entry struct {
	*logrus.Entry
}

// Options configures a Log. Zero values select info level, text output and
// stderr.
type Options struct {
	Level  string
	Format string
	File   string

	// Rotation limits, used only when File is set.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

var std = New()

// Default returns the process-wide logger.
func Default() *Log { return std }

// SetDefault replaces the process-wide logger.
func SetDefault(l *Log) { std = l }

// New returns a text logger at info level writing to stderr.
func New() *Log {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	return &Log{Logger: l}
}

// Configure applies opts. It returns an error for an unknown level or format
// and leaves the logger unchanged in that case.
func (l *Log) Configure(opts Options) error {
	level := logrus.InfoLevel
	if opts.Level != "" {
		lvl, err := logrus.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return fmt.Errorf("log level: %w", err)
		}
		level = lvl
	}

	var formatter logrus.Formatter
	switch strings.ToLower(opts.Format) {
	case "", "text":
		formatter = &logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339}
	case "json":
		formatter = &logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		}
	default:
		return fmt.Errorf("log format %q: want text or json", opts.Format)
	}

	var out io.Writer = os.Stderr
	if opts.File != "" {
		out = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, 50),
			MaxBackups: orDefault(opts.MaxBackups, 3),
			MaxAge:     orDefault(opts.MaxAgeDays, 28),
		}
	}

	l.SetLevel(level)
	l.SetFormatter(formatter)
	l.SetOutput(out)
	return nil
}

func orDefault(v, d int) int {
	if v > 0 {
		return v
	}
	return d
}

// Close releases a rotating log file, if any.
func (l *Log) Close() error {
	if c, ok := l.Out.(io.Closer); ok && l.Out != os.Stderr && l.Out != os.Stdout {
		return c.Close()
	}
	return nil
}

func (l *Log) WithComponent(component string) *Entry {
	return &Entry{Entry: l.Logger.WithField("component", component)}
}

func (l *Log) WithFields(fields Fields) *Entry {
	return &Entry{Entry: l.Logger.WithFields(fields)}
}

func (l *Log) WithError(err error) *Entry {
	return &Entry{Entry: l.Logger.WithError(err)}
}

func (e *Entry) WithFields(fields Fields) *Entry {
	return &Entry{Entry: e.Entry.WithFields(fields)}
}

func (e *Entry) WithField(key string, value any) *Entry {
	return &Entry{Entry: e.Entry.WithField(key, value)}
}

func (e *Entry) WithError(err error) *Entry {
	return &Entry{Entry: e.Entry.WithError(err)}
}

// WithComponent tags entries from the process-wide logger.
func WithComponent(component string) *Entry {
	return std.WithComponent(component)
}
