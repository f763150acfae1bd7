// Package logger provides structured logging with custom levels and a
// compact line format for fixturegen.
//
// Log output format:
//
//	2006-01-02T15:04:05.000Z [LEVEL] message | key=value, key2=value2
//
// Custom levels beyond the standard slog set:
//   - LevelTrace (-8): per-image detail
//   - LevelFail  (12): the run could not start
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ///////////////////////////////////////////////
// Custom Levels
// ///////////////////////////////////////////////

const (
	LevelTrace slog.Level = -8
	LevelDebug slog.Level = slog.LevelDebug
	LevelInfo  slog.Level = slog.LevelInfo
	LevelWarn  slog.Level = slog.LevelWarn
	LevelError slog.Level = slog.LevelError
	LevelFail  slog.Level = 12
)

// levelNames is ordered by ascending threshold; the first entry whose level
// is >= the record level names it.
var levelNames = []struct {
	level slog.Level
	name  string
}{
	{LevelTrace, "TRACE"},
	{LevelDebug, "DEBUG"},
	{LevelInfo, "INFO"},
	{LevelWarn, "WARN"},
	{LevelError, "ERROR"},
}

// levelName returns the display name for a log level.
func levelName(l slog.Level) string {
	for _, ln := range levelNames {
		if l <= ln.level {
			return ln.name
		}
	}
	return "FAIL"
}

// ParseLevel converts a level string to slog.Level (case-insensitive).
// Returns LevelInfo for unrecognized strings.
func ParseLevel(s string) slog.Level {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "FAIL" {
		return LevelFail
	}
	for _, ln := range levelNames {
		if ln.name == s {
			return ln.level
		}
	}
	return LevelInfo
}

// ValidLevel reports whether s names a level accepted in configuration.
func ValidLevel(s string) bool {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, ln := range levelNames {
		if ln.name == s {
			return true
		}
	}
	return false
}

// ///////////////////////////////////////////////
// Handler
// ///////////////////////////////////////////////

// Handler is a slog.Handler that writes one line per record in the format
// described in the package documentation.
type Handler struct {
	w     io.Writer
	mu    *sync.Mutex
	level slog.Leveler
	attrs []slog.Attr
	group string
}

// NewHandler creates a Handler that writes to w, filtering records below level.
func NewHandler(w io.Writer, level slog.Leveler) *Handler {
	return &Handler{w: w, level: level, mu: &sync.Mutex{}}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Time.UTC().Format("2006-01-02T15:04:05.000Z"))
	b.WriteString(" [")
	b.WriteString(levelName(r.Level))
	b.WriteString("] ")
	b.WriteString(r.Message)

	sep := " | "
	write := func(group string, a slog.Attr) {
		if a.Equal(slog.Attr{}) {
			return
		}
		b.WriteString(sep)
		sep = ", "
		if group != "" {
			b.WriteString(group)
			b.WriteByte('.')
		}
		b.WriteString(a.Key)
		b.WriteByte('=')
		b.WriteString(a.Value.Resolve().String())
	}
	// Stored attrs already carry the group that was open when they were added.
	for _, a := range h.attrs {
		write("", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		write(h.group, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		if h.group != "" && !a.Equal(slog.Attr{}) {
			a.Key = h.group + "." + a.Key
		}
		c.attrs = append(c.attrs, a)
	}
	return &c
}

// WithGroup prefixes subsequent attribute keys with name ("group.key").
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	if c.group != "" {
		c.group += "." + name
	} else {
		c.group = name
	}
	return &c
}

// ///////////////////////////////////////////////
// Logger Constructor
// ///////////////////////////////////////////////

// Options configures [New].
type Options struct {
	// Level is the minimum level for every destination.
	Level slog.Level
	// Console receives log lines; nil means os.Stderr.
	Console io.Writer
	// File, when set, additionally receives log lines and is rotated once it
	// exceeds MaxSizeMB.
	File      string
	MaxSizeMB int
}

// New builds a logger that writes to the console and, if configured, a
// rotating log file. The returned io.Closer flushes and closes the file and
// must be called before exit; it is a no-op without a file.
func New(opts Options) (*slog.Logger, io.Closer) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	if opts.File == "" {
		return slog.New(NewHandler(console, opts.Level)), nopCloser{}
	}

	lj := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    max(opts.MaxSizeMB, 1),
		MaxBackups: 3,
		MaxAge:     28,
	}
	h := slogmulti.Fanout(
		NewHandler(console, opts.Level),
		NewHandler(lj, opts.Level),
	)
	return slog.New(h), lj
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// ///////////////////////////////////////////////
// Helper Functions
// ///////////////////////////////////////////////

// Trace logs a message at LevelTrace.
func Trace(logger *slog.Logger, msg string, args ...any) {
	logger.Log(context.Background(), LevelTrace, msg, args...)
}

// Fail logs a message at LevelFail.
func Fail(logger *slog.Logger, msg string, args ...any) {
	logger.Log(context.Background(), LevelFail, msg, args...)
}
