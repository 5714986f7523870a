package jwt

import (
	"errors"
	"fmt"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// ErrInvalid is returned for any token that fails validation. Bad
// signature and expiry are indistinguishable to the caller.
var ErrInvalid = errors.New("invalid token")

// Create creates a server signed JWT (HS256 over the shared secret).
func Create(claims Claims, secret string) (string, error) {
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Validate checks is jwt signature valid and not expired.
func Validate(tokenString string, secret string) (*Claims, error) {
	var claims Claims
	token, err := jwtlib.ParseWithClaims(tokenString, &claims, func(t *jwtlib.Token) (any, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalid
	}

	return &claims, nil
}
