package auth

import (
	"errors"
	"fmt"

	"github.com/messagely/messagely/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is a valid bcrypt hash of a throwaway string. DummyCheck burns a
// comparison against it so login attempts for unknown usernames take about
// as long as attempts with a wrong password.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// HashPassword returns a bcrypt hash of the plaintext using the given work
// factor. An empty plaintext is rejected with common.ErrorInvalidInput.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password must not be empty: %w", common.ErrorInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt error: %w", err)
	}

	return string(hash), nil
}

// CheckPassword compares the plaintext against the stored bcrypt hash.
// A mismatch yields common.ErrorUnauthenticated; the comparison itself is
// constant-time inside bcrypt.
func CheckPassword(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return common.ErrorUnauthenticated
		}
		return fmt.Errorf("bcrypt error: %w", err)
	}
	return nil
}

// DummyCheck runs a bcrypt comparison that always fails. Call it on the
// unknown-username login path to keep response timing flat.
func DummyCheck(password string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
}
