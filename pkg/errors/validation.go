package errors

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Identifier limits for names and symbols accepted by the CLI and server.
// Logo generation itself accepts any strings; these limits only protect the
// outer surfaces (URLs, cache keys, stored records).
const (
	MaxNameLength   = 64
	MaxSymbolLength = 16
)

// ValidateName validates a token name.
//
// The rules are intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators (names appear in URL paths)
//   - Maximum length of MaxNameLength characters
func ValidateName(name string) error {
	return validateIdentifier("name", name, MaxNameLength)
}

// ValidateSymbol validates a token symbol with the same rules as
// [ValidateName] and a shorter length limit.
func ValidateSymbol(symbol string) error {
	return validateIdentifier("symbol", symbol, MaxSymbolLength)
}

func validateIdentifier(kind, value string, maxLen int) error {
	if strings.TrimSpace(value) == "" {
		return New(ErrCodeInvalidIdentifier, "%s cannot be empty", kind)
	}
	if !utf8.ValidString(value) {
		return New(ErrCodeInvalidIdentifier, "%s is not valid UTF-8", kind)
	}
	if n := utf8.RuneCountInString(value); n > maxLen {
		return New(ErrCodeInvalidIdentifier, "%s too long (%d characters, max %d)", kind, n, maxLen)
	}
	for _, r := range value {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidIdentifier, "%s contains invalid control characters", kind)
		}
	}
	if strings.ContainsAny(value, "/\\") {
		return New(ErrCodeInvalidIdentifier, "%s cannot contain path separators", kind)
	}
	return nil
}

// tokenAddressRegex matches 20-byte hex addresses with a 0x prefix.
var tokenAddressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// ValidateTokenAddress validates an EVM token contract address.
func ValidateTokenAddress(addr string) error {
	if addr == "" {
		return New(ErrCodeInvalidAddress, "token address cannot be empty")
	}
	if !tokenAddressRegex.MatchString(addr) {
		return New(ErrCodeInvalidAddress, "invalid token address: %q", addr)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
