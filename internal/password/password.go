// Package password wraps bcrypt for one-way password hashing.
package password

import "golang.org/x/crypto/bcrypt"

// Hash returns the bcrypt digest of plaintext.
func Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. It never returns an
// error: any failure, including a malformed digest, reads as false.
func Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
