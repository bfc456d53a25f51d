package auth

import (
	"crypto/rand"
	"fmt"
)

// SecretSize is the length of generated signing secrets in bytes.
const SecretSize = 32

// GenerateSecret returns n random bytes suitable as an HS256 key.
func GenerateSecret(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("secret size must be greater than 0")
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate secret: %w", err)
	}
	return b, nil
}
