package transcript

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

type contentBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text"`
	Name      string          `json:"name"`
	Input     json.RawMessage `json:"input"`
	Content   json.RawMessage `json:"content"`
	ToolUseID string          `json:"tool_use_id"`
	Source    struct {
		MediaType string `json:"media_type"`
	} `json:"source"`
}

// extractUnits maps one decoded record to zero or more content units.
// It never fails: shapes it cannot classify either degrade to a raw
// text unit or yield nothing.
func extractUnits(rec *record, line, budget int) []ContentUnit {
	switch rec.Type {
	case "user", "assistant":
		var msg message
		if err := json.Unmarshal(rec.Message, &msg); err != nil {
			return nil
		}
		role := msg.Role
		if role == "" {
			role = rec.Type
		}
		return extractContent(msg.Content, role, line, budget)

	case "tool_use":
		name := rec.Name
		if name == "" {
			name = "unknown"
		}
		return []ContentUnit{{
			Kind:      KindToolUse,
			Role:      RoleTool,
			ToolName:  name,
			ToolInput: string(rec.Input),
			Line:      line,
		}}

	case "tool_result":
		return []ContentUnit{{
			Kind:     KindToolResult,
			Role:     RoleTool,
			ToolName: rec.ToolUseID,
			Text:     capResult(flattenResult(rec.Content), budget),
			Line:     line,
		}}
	}

	// unknown record kinds yield nothing
	return nil
}

// extractContent handles the message content field, which is either a
// plain string or an ordered array of typed blocks (where elements may
// themselves be bare strings).
func extractContent(raw json.RawMessage, role string, line, budget int) []ContentUnit {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		return []ContentUnit{{Kind: KindText, Role: role, Text: s, Line: line}}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}

	var units []ContentUnit
	for _, el := range elems {
		var str string
		if err := json.Unmarshal(el, &str); err == nil {
			if strings.TrimSpace(str) == "" {
				continue
			}
			units = append(units, ContentUnit{Kind: KindText, Role: role, Text: str, Line: line})
			continue
		}

		var b contentBlock
		if err := json.Unmarshal(el, &b); err != nil {
			continue
		}

		switch b.Type {
		case "text":
			if strings.TrimSpace(b.Text) == "" {
				continue
			}
			units = append(units, ContentUnit{Kind: KindText, Role: role, Text: b.Text, Line: line})
		case "image":
			mt := b.Source.MediaType
			if mt == "" {
				mt = "unknown"
			}
			units = append(units, ContentUnit{Kind: KindImage, Role: role, MediaType: mt, Line: line})
		case "tool_use":
			name := b.Name
			if name == "" {
				name = "unknown"
			}
			units = append(units, ContentUnit{
				Kind:      KindToolUse,
				Role:      role,
				ToolName:  name,
				ToolInput: string(b.Input),
				Line:      line,
			})
		case "tool_result":
			units = append(units, ContentUnit{
				Kind:     KindToolResult,
				Role:     role,
				ToolName: b.ToolUseID,
				Text:     capResult(flattenResult(b.Content), budget),
				Line:     line,
			})
		default:
			if strings.TrimSpace(b.Text) != "" {
				units = append(units, ContentUnit{Kind: KindUnknown, Role: role, Text: b.Text, Line: line})
			}
		}
	}
	return units
}

// flattenResult collects the textual payload of a tool result, which
// is either a string or an array of text blocks. Anything else is
// carried through as raw JSON rather than dropped.
func flattenResult(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err == nil {
		var parts []string
		for _, el := range elems {
			var str string
			if err := json.Unmarshal(el, &str); err == nil {
				parts = append(parts, str)
				continue
			}
			var b contentBlock
			if err := json.Unmarshal(el, &b); err == nil && b.Type == "text" && b.Text != "" {
				parts = append(parts, b.Text)
			}
		}
		return strings.Join(parts, "\n")
	}

	return string(raw)
}

// capResult enforces the tool result character budget. Excess is
// elided with a marker that states how much was cut.
func capResult(s string, budget int) string {
	if budget <= 0 || len(s) <= budget {
		return s
	}
	cut := budget
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + fmt.Sprintf("\n... [%d characters truncated]", len(s)-cut)
}
