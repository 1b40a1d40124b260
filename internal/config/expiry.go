package config

import (
	"strconv"
	"strings"
)

// ParseExpiry interprets the expiry answer typed at the prompt.
// Blank input selects the default silently. Anything that is not a positive
// integer also selects the default, and usedDefault is true so the caller can warn.
func ParseExpiry(input string) (minutes int, usedDefault bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return DefaultExpiryMinutes, false
	}
	n, err := strconv.Atoi(input)
	if err != nil || n <= 0 {
		return DefaultExpiryMinutes, true
	}
	return n, false
}
