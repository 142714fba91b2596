package security

import "strings"

var sensitiveSubstrings = []string{
	"token",
	"password",
	"secret",
	"credential",
	"apikey",
	"api_key",
	"auth",
	"passwd",
	"key",
	"signature",
	"bearer",
}

// RedactArguments returns a copy of tool arguments with sensitive values
// replaced. Nested string maps (e.g. run_function kwargs) are redacted by
// their own keys.
func RedactArguments(values map[string]any) map[string]any {
	if values == nil {
		return nil
	}
	redacted := make(map[string]any, len(values))
	for key, value := range values {
		if isSensitiveKey(key) {
			redacted[key] = "***"
			continue
		}
		if nested, ok := value.(map[string]any); ok {
			redacted[key] = RedactArguments(nested)
			continue
		}
		redacted[key] = value
	}
	return redacted
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(strings.TrimSpace(key))
	for _, part := range sensitiveSubstrings {
		if strings.Contains(lower, part) {
			return true
		}
	}
	return false
}
