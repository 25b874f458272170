package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var (
	fencedJSONRe    = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.+?)\\s*```")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	unquotedKeyRe   = regexp.MustCompile(`([{,]\s*)([A-Za-z_]\w*)(\s*:)`)
	controlCharsRe  = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
)

// ParseAIJSON extracts and parses a JSON object from model output that may be:
// - pure JSON
// - wrapped in a markdown code fence
// - surrounded by prose
// - slightly malformed (trailing commas, unquoted keys, a BOM)
func ParseAIJSON(input string, target interface{}) error {
	input = strings.TrimSpace(strings.TrimPrefix(input, "\ufeff"))
	if input == "" {
		return fmt.Errorf("empty input")
	}

	for _, candidate := range jsonCandidates(input) {
		if err := json.Unmarshal([]byte(candidate), target); err == nil {
			return nil
		}
		if err := json.Unmarshal([]byte(cleanJSON(candidate)), target); err == nil {
			return nil
		}
	}

	return fmt.Errorf("failed to parse JSON from input: %s", truncateString(input, 100))
}

// jsonCandidates lists the substrings worth trying, most specific last
func jsonCandidates(input string) []string {
	candidates := []string{input}
	if m := fencedJSONRe.FindStringSubmatch(input); len(m) > 1 {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	if start := strings.Index(input, "{"); start >= 0 {
		if obj := extractBalanced(input[start:], '{', '}'); obj != "" {
			candidates = append(candidates, obj)
		}
	}
	return candidates
}

// extractBalanced returns the first balanced open/close run, ignoring
// delimiters inside string literals
func extractBalanced(input string, open, close rune) string {
	depth := 0
	inString := false
	escape := false
	start := -1

	for i, ch := range input {
		if escape {
			escape = false
			continue
		}
		switch {
		case ch == '\\' && inString:
			escape = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == open:
			if depth == 0 {
				start = i
			}
			depth++
		case ch == close && depth > 0:
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
		}
	}

	return ""
}

// cleanJSON fixes the formatting mistakes models commonly make
func cleanJSON(input string) string {
	s := strings.TrimSpace(input)
	s = trailingCommaRe.ReplaceAllString(s, "$1")
	s = unquotedKeyRe.ReplaceAllString(s, `$1"$2"$3`)
	return controlCharsRe.ReplaceAllString(s, "")
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Schema is a compiled JSON schema for validating decoded model output
type Schema struct {
	schema *gojsonschema.Schema
}

// CompileSchema compiles a JSON schema document
func CompileSchema(source string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{schema: s}, nil
}

// MustCompileSchema is CompileSchema for package-level schemas
func MustCompileSchema(source string) *Schema {
	s, err := CompileSchema(source)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks a decoded value (maps, slices, scalars) against the schema
func (s *Schema) Validate(data interface{}) error {
	result, err := s.schema.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("data validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}
