package auth

import (
	"github.com/jondawson917/snappycamper/internal/apperr"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a bcrypt digest using the given cost. The digest is
// self-describing (version, cost and salt are embedded), so verification never
// needs the original cost. The cost comes from process configuration and must
// never be taken from request input.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", apperr.Internal("password hashing failed")
	}
	return string(b), nil
}

// VerifyPassword safely compares a bcrypt digest and a plain password. A
// mismatch and a malformed digest both report false; neither is an error the
// caller should see.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
