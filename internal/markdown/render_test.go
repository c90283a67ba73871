package markdown

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Zuo-Peng/ai-session-export/internal/transcript"
)

func testMeta() Meta {
	return Meta{
		Title:        "Fix the null pointer bug in auth.go",
		Date:         time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
		Tags:         []string{"bug-fix"},
		SessionID:    "abc123",
		ProjectPath:  "/home/me/proj",
		MessageCount: 3,
	}
}

func parseFrontmatter(t *testing.T, doc string) Frontmatter {
	t.Helper()
	require.True(t, strings.HasPrefix(doc, "---\n"))
	rest := doc[len("---\n"):]
	end := strings.Index(rest, "\n---\n")
	require.GreaterOrEqual(t, end, 0)
	var fm Frontmatter
	require.NoError(t, yaml.Unmarshal([]byte(rest[:end+1]), &fm))
	return fm
}

func TestRenderScenario(t *testing.T) {
	units := []transcript.ContentUnit{
		{Kind: transcript.KindText, Role: transcript.RoleUser, Text: "Fix the null pointer bug in auth.go"},
		{Kind: transcript.KindText, Role: transcript.RoleAssistant, Text: "On it."},
		{Kind: transcript.KindToolUse, Role: transcript.RoleAssistant, ToolName: "Edit", ToolInput: `{"file_path":"auth.go"}`},
	}
	doc := Render(testMeta(), units)

	fm := parseFrontmatter(t, doc)
	assert.Equal(t, "Fix the null pointer bug in auth.go", fm.Title)
	assert.Equal(t, "2025-03-14", fm.Date)
	assert.Equal(t, []string{"bug-fix"}, fm.Tags)
	assert.Equal(t, "abc123", fm.SessionID)
	assert.Equal(t, "/home/me/proj", fm.Project)

	userIdx := strings.Index(doc, "## User")
	claudeIdx := strings.Index(doc, "## Claude")
	require.Greater(t, userIdx, 0)
	require.Greater(t, claudeIdx, userIdx)

	assert.Contains(t, doc, "**Tool Use**: `Edit`")
	assert.Contains(t, doc, "```json")
	assert.Contains(t, doc, `"file_path": "auth.go"`)
	assert.Contains(t, doc, "**Messages**: 3")
}

func TestRenderFrontmatterEscaping(t *testing.T) {
	meta := testMeta()
	meta.Title = `--- "tricky: title" with #yaml`
	doc := Render(meta, nil)

	fm := parseFrontmatter(t, doc)
	assert.Equal(t, meta.Title, fm.Title)
}

func TestRenderEmptyTags(t *testing.T) {
	meta := testMeta()
	meta.Tags = nil
	doc := Render(meta, nil)

	fm := parseFrontmatter(t, doc)
	assert.Empty(t, fm.Tags)
	assert.NotContains(t, doc, "**Tags**:")
}

func TestRenderGroupsConsecutiveRoles(t *testing.T) {
	units := []transcript.ContentUnit{
		{Kind: transcript.KindText, Role: transcript.RoleUser, Text: "one"},
		{Kind: transcript.KindText, Role: transcript.RoleUser, Text: "two"},
		{Kind: transcript.KindText, Role: transcript.RoleAssistant, Text: "three"},
	}
	doc := Render(testMeta(), units)

	assert.Equal(t, 1, strings.Count(doc, "## User"))
	assert.Equal(t, 1, strings.Count(doc, "## Claude"))
	assert.Less(t, strings.Index(doc, "one"), strings.Index(doc, "two"))
	assert.Less(t, strings.Index(doc, "two"), strings.Index(doc, "three"))
}

func TestRenderToolResultFence(t *testing.T) {
	units := []transcript.ContentUnit{
		{Kind: transcript.KindToolResult, Role: transcript.RoleTool, ToolName: "toolu_01", Text: "output with ``` inside"},
	}
	doc := Render(testMeta(), units)

	assert.Contains(t, doc, "## Tool Result")
	assert.Contains(t, doc, "**Tool Result**: `toolu_01`")
	// fence must be longer than the backtick run in the body
	assert.Contains(t, doc, "````\noutput with ``` inside\n````")
}

func TestRenderImageAndUnknownFallback(t *testing.T) {
	units := []transcript.ContentUnit{
		{Kind: transcript.KindImage, Role: transcript.RoleUser, MediaType: "image/png"},
		{Kind: transcript.KindUnknown, Role: transcript.RoleUser, Text: "raw-ish payload"},
	}
	doc := Render(testMeta(), units)

	assert.Contains(t, doc, "[Image: image/png]")
	assert.Contains(t, doc, "raw-ish payload")
}

func TestRenderBadToolInputFallsBack(t *testing.T) {
	units := []transcript.ContentUnit{
		{Kind: transcript.KindToolUse, Role: transcript.RoleAssistant, ToolName: "Bash", ToolInput: "not json at all"},
	}
	doc := Render(testMeta(), units)
	assert.Contains(t, doc, "not json at all")
}

func TestRenderDeterministic(t *testing.T) {
	units := []transcript.ContentUnit{
		{Kind: transcript.KindText, Role: transcript.RoleUser, Text: "same input"},
	}
	assert.Equal(t, Render(testMeta(), units), Render(testMeta(), units))
}
