// Package email normalizes and validates customer email addresses.
package email

import (
	"strings"

	"github.com/asaskevich/govalidator"
)

// Normalize lowercases and trims so lookups are case-insensitive.
func Normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// Valid reports whether address is a well-formed email of at most 255 bytes.
func Valid(address string) bool {
	return govalidator.StringLength(address, "1", "255") && govalidator.IsEmail(address)
}
