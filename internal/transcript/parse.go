package transcript

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

const maxLineSize = 10 * 1024 * 1024 // 10MB

// DefaultToolResultBudget caps how many characters of a tool result
// body are kept in the document.
const DefaultToolResultBudget = 4000

// ErrSourceUnavailable marks a transcript that could not be opened at
// all, as opposed to one with unreadable lines.
var ErrSourceUnavailable = errors.New("transcript unavailable")

type Options struct {
	ToolResultBudget int // 0 = DefaultToolResultBudget
}

type record struct {
	Type      string          `json:"type"`
	IsMeta    bool            `json:"isMeta"`
	Timestamp string          `json:"timestamp"`
	Cwd       string          `json:"cwd"`
	Message   json.RawMessage `json:"message"`

	// standalone tool records carry these at the top level
	Name      string          `json:"name"`
	Input     json.RawMessage `json:"input"`
	Content   json.RawMessage `json:"content"`
	ToolUseID string          `json:"tool_use_id"`
}

type message struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// Parse reads a JSONL transcript in a single forward pass. Lines that
// fail to decode are counted and skipped; only an unopenable file is
// an error.
func Parse(filePath string, opts Options) (*Transcript, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	budget := opts.ToolResultBudget
	if budget <= 0 {
		budget = DefaultToolResultBudget
	}

	t := &Transcript{
		Mtime: info.ModTime(),
		Size:  info.Size(),
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			t.SkippedLines++
			continue
		}

		// capture cwd from first record that has it
		if rec.Cwd != "" && t.ProjectPath == "" {
			t.ProjectPath = rec.Cwd
		}

		if rec.IsMeta {
			continue
		}

		units := extractUnits(&rec, lineNum, budget)
		if len(units) == 0 {
			continue
		}

		ts := parseTimestamp(rec.Timestamp)
		if !ts.IsZero() {
			if t.FirstTS.IsZero() {
				t.FirstTS = ts
			}
			t.LastTS = ts
		}

		t.Units = append(t.Units, units...)
		t.Turns++
	}

	return t, scanner.Err()
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return t
	}
	return time.Time{}
}
