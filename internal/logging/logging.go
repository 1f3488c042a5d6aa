// Package logging builds the service's zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Params controls logger construction.
type Params struct {
	ServiceName string
	Version     string
	Level       string
	// Console switches stdout to the human readable console writer.
	Console bool

	// FileName enables rotated file output in addition to stdout.
	FileName   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int

	// Stdout overrides os.Stdout, mostly for tests.
	Stdout io.Writer
}

// New returns a logger writing to stdout and, when configured, to a rotated log file.
// The returned closer flushes and closes the file; it is a no-op without a file.
func New(p Params) (zerolog.Logger, io.Closer) {
	var stdout io.Writer = os.Stdout
	if p.Stdout != nil {
		stdout = p.Stdout
	}
	if p.Console {
		stdout = zerolog.ConsoleWriter{Out: stdout, TimeFormat: time.RFC3339}
	}

	writer := stdout
	var closer io.Closer = nopCloser{}
	if p.FileName != "" {
		fileName := p.FileName
		if !strings.HasSuffix(fileName, ".log") {
			fileName += ".log"
		}
		rotated := &lumberjack.Logger{
			Filename:   fileName,
			MaxSize:    p.MaxSizeMB,
			MaxBackups: p.MaxBackups,
			MaxAge:     p.MaxAgeDays,
			LocalTime:  false,
			Compress:   true,
		}
		writer = zerolog.MultiLevelWriter(stdout, rotated)
		closer = rotated
	}

	return zerolog.New(writer).
		Level(ParseLevel(p.Level)).
		With().
		Timestamp().
		Str("service", p.ServiceName).
		Str("version", p.Version).
		Logger(), closer
}

// ParseLevel maps a level name onto a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
