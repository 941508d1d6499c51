package logger

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type LogLevel int

const (
	LevelError LogLevel = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

const logFileName = "slack_file_cleaner.log"

var (
	Info  = log.New(io.Discard, "INFO: ", log.LstdFlags)
	Error = log.New(os.Stderr, "ERROR: ", log.LstdFlags)
	Debug = log.New(io.Discard, "DEBUG: ", log.LstdFlags)
	Warn  = log.New(os.Stderr, "WARN: ", log.LstdFlags)
	level = LevelWarn
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func ParseLogLevel(lvl string) LogLevel {
	switch strings.ToUpper(lvl) {
	case "DEBUG":
		return LevelDebug
	case "ERROR":
		return LevelError
	case "WARN":
		return LevelWarn
	default:
		return LevelInfo
	}
}

// Init configures the leveled loggers. With an empty logDir everything goes to
// stderr so it never mixes with the console report on stdout.
func Init(logDir string, logLevel LogLevel) (io.Closer, error) {
	var (
		out    io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)

	if logDir != "" {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, err
		}

		logFile, err := os.OpenFile(
			filepath.Join(logDir, logFileName),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND,
			0644,
		)
		if err != nil {
			return nil, err
		}
		out, closer = logFile, logFile
	}

	SetOutput(out, logLevel)
	return closer, nil
}

// SetOutput points every logger at w, silencing the ones above logLevel.
func SetOutput(w io.Writer, logLevel LogLevel) {
	level = logLevel
	flags := log.Ldate | log.Ltime | log.Lshortfile

	Error = log.New(w, "ERROR: ", flags)
	Warn = log.New(writerFor(w, LevelWarn), "WARN: ", flags)
	Info = log.New(writerFor(w, LevelInfo), "INFO: ", flags)
	Debug = log.New(writerFor(w, LevelDebug), "DEBUG: ", flags)
}

func writerFor(w io.Writer, min LogLevel) io.Writer {
	if level >= min {
		return w
	}
	return io.Discard
}

func LogRateLimit(retryAfter time.Duration, operation string) {
	Warn.Printf("Rate limit hit during %s, Slack asked to wait %v seconds",
		operation, retryAfter.Seconds())
}
