// Package logger tests verify the custom [Handler] output format, level
// filtering, attribute grouping, and console/file fanout in [New].
package logger

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// ///////////////////////////////////////////////
// Handler Output Format
// ///////////////////////////////////////////////

func TestHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, LevelInfo))

	logger.Info("image committed", "index", 7)

	line := strings.TrimRight(buf.String(), "\n")
	if !strings.Contains(line, "[INFO]") {
		t.Errorf("expected [INFO] in output, got %q", line)
	}
	if !strings.Contains(line, "image committed | index=7") {
		t.Errorf("expected message and attr, got %q", line)
	}
	if !strings.HasSuffix(strings.Split(line, " [")[0], "Z") {
		t.Errorf("expected UTC timestamp ending with Z, got %q", line)
	}
}

func TestHandler_NoAttrs(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewHandler(&buf, LevelInfo)).Info("no attrs")

	if strings.Contains(buf.String(), "|") {
		t.Errorf("expected no pipe separator without attrs, got %q", buf.String())
	}
}

func TestHandler_MultipleAttrs(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewHandler(&buf, LevelInfo)).Info("multi", "a", "1", "b", "2")

	if !strings.Contains(buf.String(), "a=1, b=2") {
		t.Errorf("expected comma-separated attrs, got %q", buf.String())
	}
}

// ///////////////////////////////////////////////
// Levels
// ///////////////////////////////////////////////

func TestHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, LevelWarn))

	logger.Info("should be filtered")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be filtered") {
		t.Error("info message should have been filtered at warn level")
	}
	if !strings.Contains(out, "should appear") {
		t.Error("warn message should appear at warn level")
	}
}

func TestHandler_CustomLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, LevelTrace))

	Trace(logger, "trace msg")
	Fail(logger, "fail msg")

	out := buf.String()
	if !strings.Contains(out, "[TRACE] trace msg") {
		t.Errorf("expected [TRACE] in output, got %q", out)
	}
	if !strings.Contains(out, "[FAIL] fail msg") {
		t.Errorf("expected [FAIL] in output, got %q", out)
	}
}

func TestLevelName(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  string
	}{
		{LevelTrace, "TRACE"},
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LevelFail, "FAIL"},
		{LevelInfo + 2, "WARN"},
	}
	for _, tt := range tests {
		if got := levelName(tt.level); got != tt.want {
			t.Errorf("levelName(%d) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{" info ", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"fail", LevelFail},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestValidLevel(t *testing.T) {
	for _, s := range []string{"trace", "Debug", "INFO", "warn", "error"} {
		if !ValidLevel(s) {
			t.Errorf("ValidLevel(%q) = false", s)
		}
	}
	for _, s := range []string{"", "fail", "verbose"} {
		if ValidLevel(s) {
			t.Errorf("ValidLevel(%q) = true", s)
		}
	}
}

// ///////////////////////////////////////////////
// WithAttrs / WithGroup
// ///////////////////////////////////////////////

func TestHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, LevelInfo).WithAttrs([]slog.Attr{slog.String("run", "fixtures")})
	slog.New(h).Info("test", "index", 1)

	if !strings.Contains(buf.String(), "run=fixtures, index=1") {
		t.Errorf("expected pre-applied attr first, got %q", buf.String())
	}
}

func TestHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, LevelInfo).WithGroup("server").WithGroup("worker")
	slog.New(h).Info("nested", "id", 2)

	if !strings.Contains(buf.String(), "server.worker.id=2") {
		t.Errorf("expected nested group prefix, got %q", buf.String())
	}
}

func TestHandler_AttrsKeepGroupOfOrigin(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, LevelInfo).
		WithAttrs([]slog.Attr{slog.String("run", "a")}).
		WithGroup("pool").
		WithAttrs([]slog.Attr{slog.Int("workers", 4)}).
		WithGroup("task")
	slog.New(h).Info("done", "index", 3)

	want := "done | run=a, pool.workers=4, pool.task.index=3\n"
	if got := buf.String(); !strings.HasSuffix(got, want) {
		t.Errorf("line = %q, want suffix %q", got, want)
	}
}

func TestHandler_WithGroupEmpty(t *testing.T) {
	h := NewHandler(&bytes.Buffer{}, LevelInfo)
	if h.WithGroup("") != slog.Handler(h) {
		t.Error("WithGroup with empty string should return same handler")
	}
}

func TestHandler_ConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(&buf, LevelInfo)
	h2 := h.WithAttrs([]slog.Attr{slog.String("k", "v")}).(*Handler)
	if h.mu != h2.mu {
		t.Fatal("WithAttrs should share the same mutex pointer")
	}

	l1, l2 := slog.New(h), slog.New(h2)
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() { defer wg.Done(); l1.Info("from handler 1") }()
		go func() { defer wg.Done(); l2.Info("from handler 2") }()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 100 {
		t.Errorf("expected 100 log lines, got %d", len(lines))
	}
}

// ///////////////////////////////////////////////
// New
// ///////////////////////////////////////////////

func TestNew_ConsoleOnly(t *testing.T) {
	var console bytes.Buffer
	logger, closer := New(Options{Level: LevelInfo, Console: &console})
	logger.Info("console only")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !strings.Contains(console.String(), "console only") {
		t.Errorf("console output = %q", console.String())
	}
}

func TestNew_Fanout(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "fixturegen.log")

	logger, closer := New(Options{Level: LevelDebug, Console: &console, File: path, MaxSizeMB: 1})
	logger.Debug("to both", "n", 5)
	logger.Log(context.Background(), LevelTrace, "below level")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	for name, out := range map[string]string{"console": console.String(), "file": string(data)} {
		if !strings.Contains(out, "[DEBUG] to both | n=5") {
			t.Errorf("%s output missing record: %q", name, out)
		}
		if strings.Contains(out, "below level") {
			t.Errorf("%s output contains filtered record: %q", name, out)
		}
	}
}
