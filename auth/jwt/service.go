// Package jwt verifies the HMAC bearer tokens issued by the account
// service and decodes them into a caller-supplied claims type.
package jwt

import (
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// defaulter is implemented by claims that can fill their own timestamps.
type defaulter interface {
	SetDefaults(now time.Time, ttl time.Duration, issuer string)
}

// Service signs and verifies tokens carrying claims of type T.
type Service[T gojwt.Claims] struct {
	method   *gojwt.SigningMethodHMAC
	key      []byte
	ttl      time.Duration
	issuer   string
	parser   *gojwt.Parser
	newEmpty func() T
	now      func() time.Time
}

// NewService applies defaults to cfg, validates it and builds the parser
// once. newEmpty allocates the value each token decodes into.
func NewService[T gojwt.Claims](cfg *Config, newEmpty func() T) (*Service[T], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	method := hmacMethods[cfg.Method]

	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{method.Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, gojwt.WithAudience(cfg.Audience))
	}

	return &Service[T]{
		method:   method,
		key:      []byte(cfg.Secret),
		ttl:      cfg.TokenTTL,
		issuer:   cfg.Issuer,
		parser:   gojwt.NewParser(opts...),
		newEmpty: newEmpty,
		now:      time.Now,
	}, nil
}

// Generate signs claims, letting them fill iat/exp/iss first when they
// know how.
func (s *Service[T]) Generate(claims T) (string, error) {
	if d, ok := any(claims).(defaulter); ok {
		d.SetDefaults(s.now(), s.ttl, s.issuer)
	}
	token, err := gojwt.NewWithClaims(s.method, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("jwt: sign: %w", err)
	}
	return token, nil
}

// Parse verifies signature, expiry, issuer and audience.
func (s *Service[T]) Parse(token string) (T, error) {
	claims := s.newEmpty()
	if _, err := s.parser.ParseWithClaims(token, claims, func(*gojwt.Token) (any, error) {
		return s.key, nil
	}); err != nil {
		var zero T
		return zero, fmt.Errorf("jwt: %w", err)
	}
	return claims, nil
}
