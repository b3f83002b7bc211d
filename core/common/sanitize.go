package common

import (
	"regexp"
	"strings"
)

// ValidateCollectionName checks a Milvus collection name: 1-255
// characters, starts with a letter, letters/digits/underscores only.
func ValidateCollectionName(name string) bool {
	if len(name) == 0 || len(name) > 255 {
		return false
	}
	pattern := `^[a-zA-Z][a-zA-Z0-9_]*$`
	matched, _ := regexp.MatchString(pattern, name)
	return matched
}

// SanitizeTableName rewrites any character outside [a-zA-Z0-9_] to an
// underscore so configured table names can be interpolated into DDL.
func SanitizeTableName(name string) string {
	var result strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			result.WriteRune(r)
		} else {
			result.WriteRune('_')
		}
	}
	return result.String()
}

// TruncateString cuts s down to maxLen bytes, guarding varchar column
// limits on oversized chunks.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
