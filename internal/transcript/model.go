package transcript

import "time"

// Unit kinds. Unknown is the fallback for content shapes we cannot
// classify but still want to carry through to the document.
const (
	KindText       = "text"
	KindImage      = "image"
	KindToolUse    = "tool_use"
	KindToolResult = "tool_result"
	KindUnknown    = "unknown"
)

// Roles. Standalone tool_use/tool_result records have no message role
// and are assigned RoleTool.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

type ContentUnit struct {
	Kind      string // text, image, tool_use, tool_result, unknown
	Role      string // user, assistant, tool
	Text      string // text body, tool result body, or raw fallback
	ToolName  string // tool name (tool_use) or tool_use_id (tool_result)
	ToolInput string // tool_use input, serialized verbatim
	MediaType string // image media type
	Line      int    // line number in the original file
}

type Transcript struct {
	ProjectPath  string // cwd recorded in the transcript
	FirstTS      time.Time
	LastTS       time.Time
	Units        []ContentUnit
	Turns        int // records that produced at least one unit
	SkippedLines int // lines dropped due to decode failure
	Mtime        time.Time
	Size         int64
}
