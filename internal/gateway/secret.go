package gateway

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const secretBytes = 32

// GenerateSecret returns a random URL-safe token suitable for use as a
// webhook secret.
func GenerateSecret() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
