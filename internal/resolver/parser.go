package resolver

import (
	"encoding/json"
	"errors"
	"strings"
)

// errNoChoice indicates the model output contained no parseable choice.
var errNoChoice = errors.New("no structured choice in model output")

// modelChoice is the structured answer expected from the model.
type modelChoice struct {
	ProductName *string `json:"product_name"`
	Confidence  float64 `json:"confidence"`
	Reasoning   string  `json:"reasoning"`
}

// parseChoice extracts the first well-formed JSON object from raw model
// output. Models wrap answers in prose and code fences; the parser scans
// for balanced braces and tries each candidate block until one decodes.
func parseChoice(raw string) (*modelChoice, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errNoChoice
	}

	for start := 0; start < len(raw); start++ {
		if raw[start] != '{' {
			continue
		}
		end := matchingBrace(raw, start)
		if end < 0 {
			break
		}

		var choice modelChoice
		if err := json.Unmarshal([]byte(raw[start:end+1]), &choice); err == nil {
			clampChoice(&choice)
			return &choice, nil
		}
		// Malformed block; keep scanning past it.
		start = end
	}

	return nil, errNoChoice
}

// matchingBrace returns the index of the brace closing the one at start,
// ignoring braces inside JSON strings, or -1 when unbalanced.
func matchingBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
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
				return i
			}
		}
	}
	return -1
}

func clampChoice(c *modelChoice) {
	if c.Confidence < 0 {
		c.Confidence = 0
	}
	if c.Confidence > 1 {
		c.Confidence = 1
	}
	if c.ProductName != nil {
		trimmed := strings.TrimSpace(*c.ProductName)
		if trimmed == "" || strings.EqualFold(trimmed, "null") || strings.EqualFold(trimmed, "none") {
			c.ProductName = nil
		} else {
			c.ProductName = &trimmed
		}
	}
}
