package xslog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format selects the slog handler. JSON is the default; text is easier to read
// when running the server or CLI locally.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

const (
	EnvLevelKey  = "LOG_LEVEL"
	EnvFormatKey = "LOG_FORMAT"
)

func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return "", fmt.Errorf("invalid log level %q (valid: debug, info, warn, error)", s)
	}
}

func (l Level) ToSlog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l Level) String() string { return string(l) }

func NewLogger(w io.Writer, level Level, format Format) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level.ToSlog()}
	if format == FormatText {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// NewLoggerFromEnv reads LOG_LEVEL and LOG_FORMAT. Invalid values fall back to
// info and JSON.
func NewLoggerFromEnv(w io.Writer) *slog.Logger {
	level, err := ParseLevel(os.Getenv(EnvLevelKey))
	if err != nil {
		level = LevelInfo
	}
	format := FormatJSON
	if strings.EqualFold(os.Getenv(EnvFormatKey), string(FormatText)) {
		format = FormatText
	}
	return NewLogger(w, level, format)
}
