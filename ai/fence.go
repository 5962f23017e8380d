package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// StripFences returns the contents of the first Markdown code fence (``` or
// ```json) in s, wherever it starts. Models often wrap the fence in prose.
// Unfenced text is only trimmed.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	open := strings.Index(s, "```")
	if open < 0 {
		return s
	}
	body := s[open+3:]
	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	// Drop the info string ("json", "JSON", ...) up to the first newline.
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		if info := strings.TrimSpace(body[:nl]); !strings.ContainsAny(info, "{[") {
			body = body[nl+1:]
		}
	} else {
		body = strings.TrimPrefix(strings.TrimPrefix(body, "json"), "JSON")
	}
	return strings.TrimSpace(body)
}

// DecodeJSON strips fences from a model response and unmarshals it into v.
func DecodeJSON(text string, v any) error {
	if err := json.Unmarshal([]byte(StripFences(text)), v); err != nil {
		return fmt.Errorf("model returned invalid JSON: %w", err)
	}
	return nil
}
