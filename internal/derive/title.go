package derive

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/ai-session-export/internal/transcript"
)

const (
	titleMinChars = 20
	titleMaxWidth = 50
)

// Prefixes that mark tool noise or interruptions rather than a real
// opening request.
var titleSkipPrefixes = []string{
	"[Tool Result:",
	"[Tool Use:",
	"[Request interrupted",
	"[Image:",
}

// Title picks the first substantial user text block, in transcript
// order, as the conversation title. Falls back to a session-id derived
// placeholder so the title is never empty.
func Title(units []transcript.ContentUnit, sessionID string) string {
	for _, u := range units {
		if u.Kind != transcript.KindText || u.Role != transcript.RoleUser {
			continue
		}
		text := strings.TrimSpace(u.Text)
		if len(text) < titleMinChars {
			continue
		}
		if hasSkipPrefix(text) {
			continue
		}
		first := strings.TrimSpace(strings.SplitN(text, "\n", 2)[0])
		if first == "" {
			continue
		}
		return runewidth.Truncate(first, titleMaxWidth, "...")
	}

	id := sessionID
	if len(id) > 8 {
		id = id[:8]
	}
	return "Conversation " + id
}

func hasSkipPrefix(text string) bool {
	for _, p := range titleSkipPrefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}
