package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const codeEntropyBytes = 32

// GenerateCode returns a URL-safe one-time code with 256 bits of entropy.
// The output carries no padding so it can travel in query strings untouched.
func GenerateCode() (string, error) {
	buf := make([]byte, codeEntropyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
