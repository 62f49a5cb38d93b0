package config

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/CedoispirDB/BFC/core"
)

func parseLevel(level string) (slog.Level, error) {
	switch level {
	case "trace":
		return core.LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
}

func parseFormat(format string) (string, error) {
	switch format {
	case "text", "json":
		return format, nil
	default:
		return "", fmt.Errorf("invalid log format: %s", format)
	}
}

// InitLogger installs the default slog logger writing to w. Level is one of
// trace, debug, info, warn or error; format is text or json.
func InitLogger(level, format string, w io.Writer) error {
	slogLevel, err := parseLevel(level)
	if err != nil {
		return err
	}

	format, err = parseFormat(format)
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if l, ok := a.Value.Any().(slog.Level); ok && l == core.LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))

	return nil
}

// InitLoggerFromConfig is InitLogger with the level and format of c.
func InitLoggerFromConfig(c Config, w io.Writer) error {
	return InitLogger(c.LogLevel, c.LogFormat, w)
}
