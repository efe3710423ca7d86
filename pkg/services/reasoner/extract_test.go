package reasoner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "bare object",
			input:    `{"a": 1}`,
			expected: `{"a": 1}`,
		},
		{
			name:     "fenced json block",
			input:    "Here you go:\n```json\n{\"a\": 1}\n```\nHope that helps.",
			expected: "{\"a\": 1}",
		},
		{
			name:     "plain fence",
			input:    "```\n{\"a\": 1}\n```",
			expected: "{\"a\": 1}",
		},
		{
			name:     "object wrapped in prose",
			input:    `Sure! The answer is {"a": {"b": 2}} as requested.`,
			expected: `{"a": {"b": 2}}`,
		},
		{
			name:     "braces inside string literals",
			input:    `{"text": "closing brace } inside", "n": 1}`,
			expected: `{"text": "closing brace } inside", "n": 1}`,
		},
		{
			name:     "escaped quote inside string",
			input:    `{"text": "a \" quote", "n": 2}`,
			expected: `{"text": "a \" quote", "n": 2}`,
		},
		{
			name:     "truncated fence with complete object",
			input:    "```json\n{\"a\": 1}",
			expected: "{\"a\": 1}",
		},
		{
			name:    "truncated object",
			input:   `{"a": {"b": 1}`,
			wantErr: true,
		},
		{
			name:    "no object at all",
			input:   "I cannot answer that.",
			wantErr: true,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, got)
		})
	}
}

func TestExtractObject(t *testing.T) {
	var out struct {
		Candidates []struct {
			Kind string `json:"kind"`
		} `json:"candidates"`
	}

	text := "Based on the workload, you need:\n```json\n" +
		`{"candidates": [{"kind": "compute"}, {"kind": "database"}]}` + "\n```"
	require.NoError(t, ExtractObject(text, &out))
	require.Len(t, out.Candidates, 2)
	assert.Equal(t, "compute", out.Candidates[0].Kind)

	assert.Error(t, ExtractObject("no json here", &out))
	assert.Error(t, ExtractObject(`{"candidates": [}`, &out))
}
