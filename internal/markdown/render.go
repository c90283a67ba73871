package markdown

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Zuo-Peng/ai-session-export/internal/transcript"
)

type Meta struct {
	Title        string
	Date         time.Time
	Tags         []string
	SessionID    string
	ProjectPath  string
	MessageCount int
}

// Frontmatter is the YAML block at the top of every exported document.
// It is marshaled and unmarshaled with yaml.v3 so quoting of titles
// containing structural characters is handled by the library.
type Frontmatter struct {
	Title     string   `yaml:"title"`
	Date      string   `yaml:"date"`
	Tags      []string `yaml:"tags"`
	SessionID string   `yaml:"session_id"`
	Project   string   `yaml:"project,omitempty"`
}

// Render assembles the full document text from derived metadata and
// the ordered content units. It is a pure function and never fails:
// units with unexpected shapes render through the raw-text fallback.
func Render(meta Meta, units []transcript.ContentUnit) string {
	tags := meta.Tags
	if tags == nil {
		tags = []string{}
	}
	fm, _ := yaml.Marshal(Frontmatter{
		Title:     meta.Title,
		Date:      meta.Date.Format("2006-01-02"),
		Tags:      tags,
		SessionID: meta.SessionID,
		Project:   meta.ProjectPath,
	})

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")

	b.WriteString("# " + meta.Title + "\n\n")
	b.WriteString(fmt.Sprintf("**Session ID**: `%s`\n", meta.SessionID))
	b.WriteString(fmt.Sprintf("**Date**: %s\n", meta.Date.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("**Messages**: %d\n", meta.MessageCount))
	if len(meta.Tags) > 0 {
		b.WriteString(fmt.Sprintf("**Tags**: %s\n", strings.Join(meta.Tags, ", ")))
	}
	b.WriteString("\n---\n")

	current := ""
	for _, u := range units {
		heading := sectionHeading(u)
		if heading != current {
			b.WriteString("\n" + heading + "\n")
			current = heading
		}
		b.WriteString("\n" + renderUnit(u) + "\n")
	}

	return b.String()
}

func sectionHeading(u transcript.ContentUnit) string {
	switch u.Role {
	case transcript.RoleUser:
		return "## User"
	case transcript.RoleAssistant:
		return "## Claude"
	default:
		if u.Kind == transcript.KindToolResult {
			return "## Tool Result"
		}
		return "## Tool Use"
	}
}

func renderUnit(u transcript.ContentUnit) string {
	switch u.Kind {
	case transcript.KindText, transcript.KindUnknown:
		return u.Text
	case transcript.KindImage:
		return fmt.Sprintf("[Image: %s]", u.MediaType)
	case transcript.KindToolUse:
		label := fmt.Sprintf("**Tool Use**: `%s`", u.ToolName)
		if strings.TrimSpace(u.ToolInput) == "" {
			return label
		}
		return label + "\n\n" + fencedBlock("json", prettyJSON(u.ToolInput))
	case transcript.KindToolResult:
		label := "**Tool Result**:"
		if u.ToolName != "" {
			label = fmt.Sprintf("**Tool Result**: `%s`", u.ToolName)
		}
		if u.Text == "" {
			return label
		}
		return label + "\n\n" + fencedBlock("", u.Text)
	}
	return u.Text
}

func prettyJSON(raw string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(raw), "", "  "); err != nil {
		return raw
	}
	return buf.String()
}

// fencedBlock wraps body in a code fence long enough that backtick
// runs inside the body cannot terminate it early.
func fencedBlock(lang, body string) string {
	fence := "```"
	for strings.Contains(body, fence) {
		fence += "`"
	}
	return fence + lang + "\n" + strings.TrimRight(body, "\n") + "\n" + fence
}
