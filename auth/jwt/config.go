package jwt

import (
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// SigningMethod names an HMAC algorithm. Tokens come from the account
// service, which shares a symmetric key with voicekit.
type SigningMethod string

const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
)

var hmacMethods = map[SigningMethod]*gojwt.SigningMethodHMAC{
	HS256: gojwt.SigningMethodHS256,
	HS384: gojwt.SigningMethodHS384,
	HS512: gojwt.SigningMethodHS512,
}

// Config is the auth.jwt section.
type Config struct {
	Secret string        `yaml:"secret" mapstructure:"secret"`
	Method SigningMethod `yaml:"method" mapstructure:"method"`

	// Issuer and Audience are checked only when set.
	Issuer   string `yaml:"issuer" mapstructure:"issuer"`
	Audience string `yaml:"audience" mapstructure:"audience"`

	Leeway time.Duration `yaml:"leeway" mapstructure:"leeway"`
	// TokenTTL is the lifetime Sign gives claims without an expiry.
	TokenTTL time.Duration `yaml:"token_ttl" mapstructure:"token_ttl"`
}

func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = time.Hour
	}
}

func (c *Config) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("jwt: secret is required")
	}
	if _, ok := hmacMethods[c.Method]; !ok {
		return fmt.Errorf("jwt: method %q is not an HMAC algorithm", c.Method)
	}
	if c.Leeway < 0 {
		return fmt.Errorf("jwt: leeway must not be negative")
	}
	return nil
}
