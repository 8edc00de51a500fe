package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Options selects the level, format and destination of the logger.
type Options struct {
	Level  string // logrus level name
	Format string // "text" or "json"
	File   string // append to this file instead of Output
	Output io.Writer
}

// New builds a logger from opts. When File is set the returned closer
// closes it; otherwise it is a no-op.
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	log := logrus.New()

	level := logrus.InfoLevel
	if opts.Level != "" {
		lvl, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("parse log level: %w", err)
		}
		level = lvl
	}
	log.SetLevel(level)

	switch opts.Format {
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	var closer io.Closer = nopCloser{}
	switch {
	case opts.File != "":
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		log.SetOutput(f)
		closer = f
	case opts.Output != nil:
		log.SetOutput(opts.Output)
	default:
		log.SetOutput(os.Stderr)
	}

	return log, closer, nil
}

// Install copies the logger's settings onto the logrus standard logger so
// package-level logrus calls follow the same configuration.
func Install(log *logrus.Logger) {
	std := logrus.StandardLogger()
	std.SetLevel(log.GetLevel())
	std.SetFormatter(log.Formatter)
	std.SetOutput(log.Out)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
