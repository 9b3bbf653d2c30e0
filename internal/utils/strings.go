package utils

import "strings"

// TrimOrEmpty normalizes user input without turning nil into "nil".
func TrimOrEmpty(s string) string {
	return strings.TrimSpace(s)
}

// NormalizePhone strips all whitespace so "+44 7700 900123" and
// "+447700900123" compare equal at the tracking boundary.
func NormalizePhone(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// NormalizeEmail lowercases and trims for case-insensitive matching.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
