package redact

import (
	"regexp"
)

var (
	// AWS secret access keys and session tokens (long base64 runs, with
	// optional padding). The leading delimiter is captured and restored so
	// prefixes like "secret=" survive; RE2 has no lookbehind.
	secretPattern = regexp.MustCompile(`(^|[^A-Za-z0-9/+])([A-Za-z0-9/+]{40,}={0,2})`)
	// JWT fragments.
	jwtPattern = regexp.MustCompile(`eyJ[a-zA-Z0-9_\-]+\.[a-zA-Z0-9_\-]+\.[a-zA-Z0-9_\-]+`)
)

type Redactor struct{}

func New() *Redactor {
	return &Redactor{}
}

func (r *Redactor) RedactString(input string) string {
	out := jwtPattern.ReplaceAllString(input, "[REDACTED]")
	return secretPattern.ReplaceAllString(out, "${1}[REDACTED]")
}

func (r *Redactor) RedactMap(input map[string]any) map[string]any {
	output := map[string]any{}
	for k, v := range input {
		output[k] = r.RedactValue(v)
	}
	return output
}

func (r *Redactor) RedactValue(input any) any {
	switch v := input.(type) {
	case string:
		return r.RedactString(v)
	case map[string]any:
		return r.RedactMap(v)
	case []any:
		redacted := make([]any, 0, len(v))
		for _, item := range v {
			redacted = append(redacted, r.RedactValue(item))
		}
		return redacted
	default:
		return input
	}
}
