package jwt

import (
	jwtlib "github.com/golang-jwt/jwt/v5"
)

// Claims carried inside an issued token. The display fields ride along so
// clients can render the session owner without an extra lookup.
type Claims struct {
	UserID    string `json:"_id"`
	FirstName string `json:"fname,omitempty"`
	LastName  string `json:"lname,omitempty"`
	Email     string `json:"email"`
	jwtlib.RegisteredClaims
}
