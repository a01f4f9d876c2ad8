package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// UserID is the user_id claim. Issuers write it either as a JSON number
// or as a numeric string.
type UserID uint

// UnmarshalJSON accepts 42 and "42".
func (id *UserID) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseUint(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("user_id: %w", err)
	}
	*id = UserID(n)
	return nil
}

// MarshalJSON writes the id as a number.
func (id UserID) MarshalJSON() ([]byte, error) {
	return json.Marshal(uint(id))
}

// Claims are the bearer token claims voicekit reads.
type Claims struct {
	gojwt.RegisteredClaims
	UserID UserID `json:"user_id"`
}

// AccountID returns the user id, falling back to a numeric "sub" claim.
func (c *Claims) AccountID() (uint, bool) {
	if c.UserID != 0 {
		return uint(c.UserID), true
	}
	if n, err := strconv.ParseUint(c.RegisteredClaims.Subject, 10, 64); err == nil && n > 0 {
		return uint(n), true
	}
	return 0, false
}

// SetDefaults fills issued-at, expiry and issuer when unset.
func (c *Claims) SetDefaults(now time.Time, ttl time.Duration, issuer string) {
	if c.IssuedAt == nil {
		c.IssuedAt = gojwt.NewNumericDate(now)
	}
	if c.ExpiresAt == nil {
		c.ExpiresAt = gojwt.NewNumericDate(now.Add(ttl))
	}
	if c.Issuer == "" {
		c.Issuer = issuer
	}
}

// TokenParser verifies a bearer token. *jwt.Service[*Claims] implements it.
type TokenParser interface {
	Parse(token string) (*Claims, error)
}

// TokenParserFunc adapts a function to TokenParser.
type TokenParserFunc func(token string) (*Claims, error)

// Parse implements TokenParser.
func (f TokenParserFunc) Parse(token string) (*Claims, error) { return f(token) }

// NewClaims returns empty claims for jwt.NewService.
func NewClaims() *Claims { return &Claims{} }
