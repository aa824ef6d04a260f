// Package validation provides input validation and sanitization for the lang-portal API.
package validation

import (
	"mime"
	"strconv"
	"strings"
	"unicode/utf8"
)

// SanitizeString cleans a string input by:
// - Trimming leading/trailing whitespace
// - Removing null bytes
// - Ensuring valid UTF-8 encoding
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")

	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}

	return strings.TrimSpace(s)
}

// ParseIntParam parses an integer query parameter.
// Returns the default value if the parameter is absent or not an integer.
// No bounds are applied.
func ParseIntParam(s string, defaultVal int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return val
}

// IsJSONContentType reports whether a Content-Type header denotes a JSON body:
// application/json or any application/*+json media type.
func IsJSONContentType(header string) bool {
	if header == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return false
	}
	if mediaType == "application/json" {
		return true
	}
	return strings.HasPrefix(mediaType, "application/") && strings.HasSuffix(mediaType, "+json")
}

// ValidateStringLength checks if a string length is within bounds.
func ValidateStringLength(s string, minLen, maxLen int) bool {
	length := utf8.RuneCountInString(s)
	return length >= minLen && length <= maxLen
}
