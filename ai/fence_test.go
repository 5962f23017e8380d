package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "\n\n  ```json\n{\"a\":1}\n```  \n", `{"a":1}`},
		{"single line fence", "```json{\"a\":1}```", `{"a":1}`},
		{"array", "```json\n[1,2]\n```", `[1,2]`},
		{"prose around fence", "Here is the JSON:\n```json\n{\"a\":1}\n```\nThanks", `{"a":1}`},
		{"first of two fences", "```json\n{\"a\":1}\n```\nor\n```json\n{\"a\":2}\n```", `{"a":1}`},
		{"unclosed fence", "Sure!\n```json\n{\"a\":1}", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.in))
		})
	}
}

func TestDecodeJSON_FencedMatchesBare(t *testing.T) {
	payload := `{"item_type":"bag","colors":["black"],"formality_level":3}`

	var bare, fenced map[string]any
	require.NoError(t, DecodeJSON(payload, &bare))
	require.NoError(t, DecodeJSON("```json\n"+payload+"\n```", &fenced))
	assert.Equal(t, bare, fenced)
}

func TestDecodeJSON_ProseWrappedFence(t *testing.T) {
	var v struct {
		ItemType string `json:"item_type"`
	}
	require.NoError(t, DecodeJSON("Here is the analysis:\n```json\n{\"item_type\":\"shirt\"}\n```\nLet me know!", &v))
	assert.Equal(t, "shirt", v.ItemType)
}

func TestDecodeJSON_Invalid(t *testing.T) {
	var v map[string]any
	err := DecodeJSON("```json\nnot json\n```", &v)
	assert.Error(t, err)
}
