package llm

import (
	"encoding/json"
	"strings"
)

// ExtractJSON decodes a JSON object out of LLM output, tolerating code
// fences and surrounding prose. Returns false when nothing parseable is
// found; callers fall back to heuristic defaults.
func ExtractJSON(content string, out interface{}) bool {
	trimmed := strings.TrimSpace(content)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	if json.Unmarshal([]byte(trimmed), out) == nil {
		return true
	}

	// last resort: widest braces in the text
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		return json.Unmarshal([]byte(trimmed[start:end+1]), out) == nil
	}
	return false
}
