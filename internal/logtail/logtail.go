package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Read returns the last maxLines entries of the client log at path whose
// level is at least minLevel. Lines without a level continue the entry
// above them and share its fate. A missing file yields no lines.
func Read(path string, maxLines int, minLevel slog.Level) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	tail := window{size: maxLines}
	keep := true
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if level, ok := LineLevel(line); ok {
			keep = level >= minLevel
		}
		if keep {
			tail.push(line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return tail.lines(), nil
}

// window retains the most recent size lines. It compacts once the backing
// slice holds twice that, so each line is copied at most once more.
type window struct {
	size int
	buf  []string
}

func (w *window) push(line string) {
	w.buf = append(w.buf, line)
	if len(w.buf) >= 2*w.size {
		w.buf = append(w.buf[:0], w.buf[len(w.buf)-w.size:]...)
	}
}

func (w *window) lines() []string {
	if len(w.buf) == 0 {
		return nil
	}
	start := max(len(w.buf)-w.size, 0)
	out := make([]string, len(w.buf)-start)
	copy(out, w.buf[start:])
	return out
}

// LineLevel extracts the level of a slog text line. Lines without a level
// field report false.
func LineLevel(line string) (slog.Level, bool) {
	for _, field := range strings.Fields(line) {
		value, ok := strings.CutPrefix(field, "level=")
		if !ok {
			continue
		}
		var level slog.Level
		if err := level.UnmarshalText([]byte(value)); err != nil {
			return 0, false
		}
		return level, true
	}
	return 0, false
}
