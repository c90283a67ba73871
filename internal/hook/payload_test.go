package hook

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPayload(t *testing.T) {
	in := `{"session_id":"abc123","transcript_path":"/tmp/abc123.jsonl","cwd":"/home/me/proj","reason":"exit"}`
	p, err := ReadPayload(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "abc123", p.SessionID)
	assert.Equal(t, "/tmp/abc123.jsonl", p.TranscriptPath)
	assert.Equal(t, "/home/me/proj", p.Cwd)
	assert.Equal(t, "exit", p.Reason)
}

func TestReadPayloadMissingFields(t *testing.T) {
	_, err := ReadPayload(strings.NewReader(`{"cwd":"/home/me"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session_id")

	_, err = ReadPayload(strings.NewReader(`{"session_id":"abc123"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cwd")
}

func TestReadPayloadBadJSON(t *testing.T) {
	_, err := ReadPayload(strings.NewReader("not json"))
	require.Error(t, err)
}
