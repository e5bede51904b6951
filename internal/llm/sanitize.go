package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"regexp"
	"strings"
)

var (
	reFenceOpen  = regexp.MustCompile("^```(?:json)?")
	reFenceClose = regexp.MustCompile("```$")
)

// ExtractJSONBlock salvages a JSON object from a model reply: code fences are
// stripped, and when the remainder still fails to look like JSON the outer
// brace pair is sliced out. Returns nil when no object can be found.
func ExtractJSONBlock(raw string) []byte {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	s = reFenceOpen.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = reFenceClose.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	if json.Valid([]byte(s)) && strings.HasPrefix(s, "{") {
		return []byte(s)
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end <= start {
		return nil
	}
	block := s[start : end+1]
	if !json.Valid([]byte(block)) {
		return nil
	}
	return []byte(block)
}

// NormalizeAndSanitizeJSON
// - Coerces list values to comma-joined strings, numbers to strings
// - Drops null/empty values
// - Removes unknown keys (strict additionalProperties = false friendliness)
// - Trims surviving strings
func NormalizeAndSanitizeJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	allowed := make(map[string]struct{}, len(ModelKeys))
	for _, k := range ModelKeys {
		allowed[k] = struct{}{}
	}

	dropped := make([]string, 0, 8)
	for k, v := range maps.Clone(m) {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
			continue
		}
		s, ok := coerceString(v)
		if !ok || s == "" {
			delete(m, k)
			dropped = append(dropped, k+"(empty)")
			continue
		}
		m[k] = s
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.extract.normalize_sanitize", "dropped", dropped)
	}
	return out, dropped, nil
}

// SanitizeOptionalFields removes optional fields that don't meet the stricter
// schema patterns so the overall document can still validate.
func SanitizeOptionalFields(doc []byte) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, nil, err
	}

	schema := BuildCandidateJSONSchema()
	props := schema["properties"].(map[string]any)

	var dropped []string
	for _, k := range optionalStrictKeys {
		v, ok := m[k]
		if !ok {
			continue
		}
		s, _ := coerceString(v)
		pattern := props[k].(map[string]any)["pattern"].(string)
		if s == "" || !regexp.MustCompile(pattern).MatchString(strings.TrimSpace(s)) {
			delete(m, k)
			dropped = append(dropped, k)
			continue
		}
		m[k] = strings.TrimSpace(s)
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil, nil, err
	}
	return b, dropped, nil
}

// coerceString turns the JSON value shapes models actually emit into one
// trimmed string: scalars are formatted, lists are comma-joined with empty
// members skipped, anything else is rejected.
func coerceString(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return strings.TrimSpace(t), true
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t)), true
		}
		return fmt.Sprintf("%g", t), true
	case bool:
		if t {
			return "Yes", true
		}
		return "No", true
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := coerceString(item)
			if !ok || s == "" {
				continue
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ", "), true
	default:
		return "", false
	}
}
