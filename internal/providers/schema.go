package providers

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/menucarta/carta/internal/menu"
)

// menuSchemaName identifies the schema in the structured output request.
const menuSchemaName = "menu_schema"

// menuSchemaJSON is the wire contract for extraction responses. item_name is
// the only required item field; everything else is nullable and no additional
// properties are permitted.
const menuSchemaJSON = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "properties": {
          "item_name": {"type": "string"},
          "category": {"type": ["string", "null"]},
          "description": {"type": ["string", "null"]},
          "price": {"type": ["number", "null"]},
          "half_plate_price": {"type": ["number", "null"]},
          "full_plate_price": {"type": ["number", "null"]},
          "small_price": {"type": ["number", "null"]},
          "medium_price": {"type": ["number", "null"]},
          "large_price": {"type": ["number", "null"]},
          "price_display": {"type": ["string", "null"]}
        },
        "required": ["item_name"]
      }
    }
  },
  "required": ["items"]
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
)

// menuSchema returns the compiled wire schema, compiling it on first use.
func menuSchema() *jsonschema.Schema {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("menu_schema.json", strings.NewReader(menuSchemaJSON)); err != nil {
			panic(fmt.Sprintf("failed to load menu schema: %v", err))
		}
		compiledSchema = compiler.MustCompile("menu_schema.json")
	})
	return compiledSchema
}

// menuSchemaDoc returns the schema as a decoded document for embedding in the
// structured output request.
func menuSchemaDoc() map[string]any {
	var doc map[string]any
	if err := json.Unmarshal([]byte(menuSchemaJSON), &doc); err != nil {
		panic(fmt.Sprintf("invalid menu schema JSON: %v", err))
	}
	return doc
}

// ParseMenuJSON parses and schema-validates model output. A response that
// parses as JSON but fails validation is an error: the caller treats it as a
// failed attempt, never a partial success.
func ParseMenuJSON(content string) (*menu.RawMenu, error) {
	normalized, err := parseStructuredJSON(content)
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(normalized, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode structured JSON for validation: %w", err)
	}
	if err := menuSchema().Validate(doc); err != nil {
		return nil, fmt.Errorf("structured output does not match schema: %w", err)
	}

	var parsed menu.RawMenu
	if err := json.Unmarshal(normalized, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode menu items: %w", err)
	}
	return &parsed, nil
}

// parseStructuredJSON parses JSON from model output, with lightweight recovery
// for markdown code fences and surrounding text.
func parseStructuredJSON(content string) (json.RawMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("empty structured output")
	}

	candidates := []string{content}
	if stripped := stripCodeFences(content); stripped != "" && stripped != content {
		candidates = append(candidates, stripped)
	}
	if extracted := extractJSONCandidate(content); extracted != "" && extracted != content {
		candidates = append(candidates, extracted)
	}

	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		if _, ok := seen[candidate]; ok {
			continue
		}
		seen[candidate] = struct{}{}

		var parsed any
		if err := json.Unmarshal([]byte(candidate), &parsed); err == nil {
			normalized, mErr := json.Marshal(parsed)
			if mErr != nil {
				return nil, fmt.Errorf("failed to normalize structured output: %w", mErr)
			}
			return normalized, nil
		}
	}

	return nil, fmt.Errorf("failed to parse structured JSON")
}

func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return ""
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return ""
	}

	// Drop first fence line.
	lines = lines[1:]
	// Drop trailing fence if present.
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func extractJSONCandidate(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ""
	}

	start := strings.Index(trimmed, "{")
	if start < 0 {
		return ""
	}
	end := strings.LastIndex(trimmed, "}")
	if end < start {
		return ""
	}
	return strings.TrimSpace(trimmed[start : end+1])
}
