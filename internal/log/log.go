package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/chainguard-dev/clog"
	charmlog "github.com/charmbracelet/log"
	slogmulti "github.com/samber/slog-multi"
)

// Format selects how records are rendered.
type Format string

const (
	// FormatJSON writes one JSON object per record, for CloudWatch Logs.
	FormatJSON Format = "json"
	// FormatText writes human readable, colorized records for terminals.
	FormatText Format = "text"
)

// Options configures the logger built by New.
type Options struct {
	Level  slog.Level
	Format Format

	// Extra handlers to fan records out to, in addition to the primary one.
	Handlers []slog.Handler
}

// New builds a clog logger writing to w.
func New(w io.Writer, opts Options) *clog.Logger {
	var primary slog.Handler
	switch opts.Format {
	case FormatText:
		primary = charmlog.NewWithOptions(w, charmlog.Options{
			Level:           charmlog.Level(opts.Level),
			ReportTimestamp: true,
		})
	default:
		primary = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: opts.Level})
	}

	if len(opts.Handlers) == 0 {
		return clog.New(primary)
	}
	return clog.New(slogmulti.Fanout(append([]slog.Handler{primary}, opts.Handlers...)...))
}

// Setup installs logger in ctx and as the slog default.
func Setup(ctx context.Context, logger *clog.Logger) context.Context {
	slog.SetDefault(&logger.Logger)
	return clog.WithLogger(ctx, logger)
}

// With returns a context whose logger carries args on every record.
func With(ctx context.Context, args ...any) context.Context {
	logger := clog.FromContext(ctx).With(args...)
	return clog.WithLogger(ctx, logger)
}

// ParseLevel accepts the slog level names (debug, info, warn, error),
// case-insensitively.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
