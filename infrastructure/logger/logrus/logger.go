// ABOUTME: Logrus-backed implementation of interfaces.Logger
// ABOUTME: JSON output to stdout or a lumberjack-rotated file

package logrus

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the logger
type Options struct {
	// Level is a logrus level name; unknown names fall back to info
	Level string

	// File enables rotated file output when set
	File string

	// Output overrides the destination when File is empty
	Output io.Writer
}

// Logger adapts a logrus.Logger to interfaces.Logger
type Logger struct {
	entry *logrus.Logger
}

// New creates a JSON logrus logger
func New(opts Options) *Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	switch {
	case opts.File != "":
		l.SetOutput(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    500, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		})
	case opts.Output != nil:
		l.SetOutput(opts.Output)
	default:
		l.SetOutput(os.Stdout)
	}

	return &Logger{entry: l}
}

func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Debug(msg)
}

func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Info(msg)
}

func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Warn(msg)
}

func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Error(msg)
}
