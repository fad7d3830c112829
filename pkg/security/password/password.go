// Package password wraps bcrypt digesting behind the two operations the
// auth domain needs: produce a salted digest and verify a candidate
// against one.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// MaxLength is the longest password accepted, in bytes. bcrypt ignores
// input beyond 72 bytes, so longer passwords are rejected instead of being
// silently truncated.
const MaxLength = 72

var ErrTooLong = errors.New("password exceeds 72 bytes")

// Hash produces a salted bcrypt digest of plaintext. The salt is random
// per call, so hashing the same input twice yields different digests.
func Hash(plaintext string) (string, error) {
	if len(plaintext) > MaxLength {
		return "", ErrTooLong
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches the digest. Comparison is
// constant-time. A malformed digest fails closed: the answer is false,
// never an error or a panic.
func Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
