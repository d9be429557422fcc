// Package auth implements the credential primitives of the server: bcrypt
// password hashing/verification and stateless JWT session tokens.
//
// The signing secret is always passed in by the caller (it comes from
// config); this package keeps no global state so tests can substitute
// deterministic keys.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/messagely/messagely/internal/common"
)

// Claims is the token payload: standard registered claims plus the username
// the token is bound to.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// GenerateToken issues a signed HS256 token binding the username. The token
// carries IssuedAt and ExpiresAt; expired tokens fail verification.
func GenerateToken(username string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		Username: username,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseClaims verifies the token signature and shape and returns the decoded
// claims. Expired tokens yield common.ErrTokenExpired; any other failure
// (bad signature, malformed string, wrong algorithm) yields
// common.ErrInvalidToken.
func ParseClaims(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		// tokens must be HMAC-signed; reject anything else
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// GetUsernameFromToken verifies the token and returns the bound username.
func GetUsernameFromToken(tokenString string, secretKey []byte) (string, error) {
	claims, err := ParseClaims(tokenString, secretKey)
	if err != nil {
		return "", err
	}
	return claims.Username, nil
}
