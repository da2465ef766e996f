package query

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// GenerateBcryptHash hashes password at bcrypt's default cost. The result
// is compatible with tools like htpasswd and the Apache/nginx basic-auth
// file formats.
func GenerateBcryptHash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("generate bcrypt hash: %w", err)
	}
	return string(hash), nil
}
