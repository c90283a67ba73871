package derive

import (
	"sort"
	"strings"

	"github.com/Zuo-Peng/ai-session-export/internal/transcript"
)

const maxTags = 5

// taxonomy maps a tag to the substrings that trigger it. Matching is
// case-insensitive over all text blocks plus tool names.
var taxonomy = map[string][]string{
	"api":                 {"api"},
	"bug-fix":             {"bug", "fix"},
	"code-review":         {"review"},
	"debugging":           {"debug"},
	"deployment":          {"deploy"},
	"documentation":       {"documentation"},
	"explanation":         {"explain"},
	"feature-development": {"feature", "implement"},
	"help":                {"help"},
	"refactoring":         {"refactor"},
	"testing":             {"test"},
}

// Tags derives topic tags from the conversation content. The result is
// alphabetical and capped at maxTags, so identical input always yields
// an identical tag list.
func Tags(units []transcript.ContentUnit) []string {
	var b strings.Builder
	for _, u := range units {
		switch u.Kind {
		case transcript.KindText:
			b.WriteString(u.Text)
			b.WriteByte(' ')
		case transcript.KindToolUse:
			b.WriteString(u.ToolName)
			b.WriteByte(' ')
		}
	}
	text := strings.ToLower(b.String())
	if text == "" {
		return nil
	}

	names := make([]string, 0, len(taxonomy))
	for name := range taxonomy {
		names = append(names, name)
	}
	sort.Strings(names)

	var tags []string
	for _, name := range names {
		if len(tags) == maxTags {
			break
		}
		for _, kw := range taxonomy[name] {
			if strings.Contains(text, kw) {
				tags = append(tags, name)
				break
			}
		}
	}
	return tags
}
