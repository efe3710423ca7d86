package reasoner

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON pulls the JSON object out of a model response. Preference order:
// the content of a ```json fenced block, then the first balanced {...} object
// found in the text. Truncated or object-free responses are an error, never a
// guess.
func ExtractJSON(text string) (string, error) {
	if fenced, ok := fencedBlock(text); ok {
		text = fenced
	}

	obj, ok := balancedObject(text)
	if !ok {
		return "", fmt.Errorf("no balanced JSON object in response (%d bytes)", len(text))
	}
	return obj, nil
}

// ExtractObject extracts and unmarshals in one step.
func ExtractObject(text string, v any) error {
	obj, err := ExtractJSON(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(obj), v); err != nil {
		return fmt.Errorf("failed to parse extracted JSON: %w", err)
	}
	return nil
}

func fencedBlock(text string) (string, bool) {
	for _, marker := range []string{"```json", "```"} {
		start := strings.Index(text, marker)
		if start < 0 {
			continue
		}
		rest := text[start+len(marker):]
		end := strings.Index(rest, "```")
		if end < 0 {
			// Truncated fence; let the balanced-object scan deal with it.
			return rest, true
		}
		return rest[:end], true
	}
	return "", false
}

// balancedObject scans for the first '{' and walks to its matching '}',
// respecting string literals and escapes.
func balancedObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
