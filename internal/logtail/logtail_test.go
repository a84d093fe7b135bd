package logtail

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "naotimes.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("level=INFO msg=\"line %d\"", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{"zero lines", 0, nil},
		{"negative", -1, nil},
		{"read partial (5)", 5, expectedAll[5:]},
		{"read exactly all (10)", 10, expectedAll},
		{"read more than exists (20)", 20, expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines, slog.LevelDebug)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "missing.log"), 10, slog.LevelDebug)
	if err != nil || got != nil {
		t.Fatalf("Read() = %v, %v; want nil, nil", got, err)
	}
}

func TestLineLevel(t *testing.T) {
	tests := []struct {
		line   string
		want   slog.Level
		wantOK bool
	}{
		{`time=2026-01-01T00:00:00Z level=WARN msg="project poll failed"`, slog.LevelWarn, true},
		{`time=2026-01-01T00:00:00Z level=DEBUG msg="cache hit"`, slog.LevelDebug, true},
		{`level=ERROR+2 msg=x`, slog.LevelError + 2, true},
		{`level=LOUD msg=x`, 0, false},
		{`plain text`, 0, false},
	}
	for _, tt := range tests {
		got, ok := LineLevel(tt.line)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("LineLevel(%q) = %v, %v; want %v, %v", tt.line, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRead_FiltersWhileReading(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "naotimes.log")
	lines := []string{
		`  header without level`,
		`level=WARN msg="project poll failed" attempt=1`,
		`level=DEBUG msg="cache hit"`,
		`  debug continuation`,
		`level=INFO msg="starting ui"`,
		`level=WARN msg="project poll failed" attempt=2`,
		`  warn continuation`,
		`level=ERROR msg="boom"`,
		`level=DEBUG msg="cache miss"`,
	}
	if err := os.WriteFile(logPath, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		minLevel slog.Level
		expected []string
	}{
		{"warn and above", 10, slog.LevelWarn, []string{lines[0], lines[1], lines[5], lines[6], lines[7]}},
		{"window counts kept lines only", 2, slog.LevelWarn, []string{lines[6], lines[7]}},
		{"error only", 5, slog.LevelError, []string{lines[0], lines[7]}},
		{"everything", 1, slog.LevelDebug, []string{lines[8]}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines, tt.minLevel)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestWindow_KeepsNewest(t *testing.T) {
	w := window{size: 3}
	for i := 1; i <= 10; i++ {
		w.push(fmt.Sprint(i))
	}
	if got, want := w.lines(), []string{"8", "9", "10"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("lines() = %v, want %v", got, want)
	}
	if len(w.buf) >= 2*w.size {
		t.Fatalf("buffer grew to %d entries", len(w.buf))
	}
}
