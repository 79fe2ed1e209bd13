package syllabus

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Raw* mirror the structured response requested from the model. Every field
// is optional: the model's output is never trusted to be well-shaped, and the
// transform fills gaps with explicit fallbacks.

type RawSyllabus struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Modules     []*RawModule `json:"modules"`
}

type RawModule struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Objectives  []*RawObjective `json:"objectives"`
}

type RawObjective struct {
	// Id is the model's own local objective tag, used for cross-referencing
	// during generation. May be absent.
	Id          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Questions   []*RawQuestion `json:"questions"`
}

type RawQuestion struct {
	Type        string       `json:"type"`
	Bloom       string       `json:"bloomLevel"`
	Prompt      string       `json:"prompt"`
	Options     []*RawOption `json:"options"`
	ModelAnswer string       `json:"modelAnswer"`
}

type RawOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// ParseResponse deserializes the model's structured output. Markdown fences
// are stripped first; if direct deserialization still fails, the largest
// embedded JSON object is extracted before giving up.
func ParseResponse(text string) (*RawSyllabus, error) {
	payload := trimFences([]byte(text))

	var raw RawSyllabus
	if err := json.Unmarshal(payload, &raw); err == nil {
		return &raw, nil
	}

	fragment, ok := extractJSONObject(string(payload))
	if !ok {
		return nil, fmt.Errorf("response contains no JSON object")
	}
	if err := json.Unmarshal([]byte(fragment), &raw); err != nil {
		return nil, fmt.Errorf("parse extracted fragment: %w", err)
	}
	return &raw, nil
}

func trimFences(payload []byte) []byte {
	payload = bytes.TrimSpace(payload)
	payload = bytes.TrimPrefix(payload, []byte("```json"))
	payload = bytes.TrimPrefix(payload, []byte("```"))
	payload = bytes.TrimSuffix(payload, []byte("```"))
	return bytes.TrimSpace(payload)
}

// extractJSONObject returns the largest balanced top-level {...} fragment.
// Brace counting is string-aware so braces inside values do not break it.
func extractJSONObject(text string) (string, bool) {
	best := ""
	for start := 0; start < len(text); {
		open := -1
		for i := start; i < len(text); i++ {
			if text[i] == '{' {
				open = i
				break
			}
		}
		if open < 0 {
			break
		}

		depth := 0
		inString := false
		escaped := false
		end := -1
		for i := open; i < len(text); i++ {
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
					end = i
				}
			}
			if end >= 0 {
				break
			}
		}

		if end < 0 {
			break
		}
		if candidate := text[open : end+1]; len(candidate) > len(best) {
			best = candidate
		}
		start = end + 1
	}
	return best, best != ""
}
