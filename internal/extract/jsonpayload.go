package extract

import (
	"encoding/json"
	"strings"
)

// ExtractJSON pulls a JSON payload out of free-form model text. It accepts
// bare JSON or JSON wrapped in a fenced code block, with or without a
// language tag. No valid payload means ok == false; there is no partial parse.
func ExtractJSON(text string) ([]byte, bool) {
	trimmed := strings.TrimSpace(text)

	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		// Drop a language tag like "json" on the opening fence line.
		if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
			firstLine := strings.TrimSpace(trimmed[:idx])
			if firstLine != "" && !strings.ContainsAny(firstLine, "{[") {
				trimmed = trimmed[idx+1:]
			}
		}
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
		trimmed = strings.TrimSpace(trimmed)
	}

	if !json.Valid([]byte(trimmed)) {
		return nil, false
	}
	return []byte(trimmed), true
}
