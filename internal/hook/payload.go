package hook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Payload is what Claude Code pipes to a SessionEnd hook on stdin.
type Payload struct {
	SessionID      string `json:"session_id"`
	TranscriptPath string `json:"transcript_path"`
	Cwd            string `json:"cwd"`
	Reason         string `json:"reason"`
}

func ReadPayload(r io.Reader) (*Payload, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode hook payload: %w", err)
	}
	if p.SessionID == "" {
		return nil, errors.New("hook payload missing session_id")
	}
	if p.Cwd == "" {
		return nil, errors.New("hook payload missing cwd")
	}
	return &p, nil
}
