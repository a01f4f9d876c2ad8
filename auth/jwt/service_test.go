package jwt

import (
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

type testClaims struct {
	gojwt.RegisteredClaims
	UserID uint `json:"user_id"`
}

func newTestClaims() *testClaims { return &testClaims{} }

func TestService_RoundTrip(t *testing.T) {
	svc, err := NewService(&Config{Secret: "s3cret", Issuer: "voicekit"}, newTestClaims)
	if err != nil {
		t.Fatal(err)
	}
	token, err := svc.Generate(&testClaims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    "voicekit",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
		UserID: 42,
	})
	if err != nil {
		t.Fatal(err)
	}
	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("expected 42, got %d", claims.UserID)
	}
}

func TestService_Rejects(t *testing.T) {
	svc, _ := NewService(&Config{Secret: "s3cret", Issuer: "voicekit"}, newTestClaims)
	sign := func(method gojwt.SigningMethod, key any, c *testClaims) string {
		s, err := gojwt.NewWithClaims(method, c).SignedString(key)
		if err != nil {
			t.Fatal(err)
		}
		return s
	}
	valid := func() *testClaims {
		return &testClaims{RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    "voicekit",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Minute)),
		}}
	}

	expired := valid()
	expired.ExpiresAt = gojwt.NewNumericDate(time.Now().Add(-time.Minute))
	noExpiry := valid()
	noExpiry.ExpiresAt = nil
	wrongIssuer := valid()
	wrongIssuer.Issuer = "someone-else"

	tests := map[string]string{
		"expired":      sign(gojwt.SigningMethodHS256, []byte("s3cret"), expired),
		"no expiry":    sign(gojwt.SigningMethodHS256, []byte("s3cret"), noExpiry),
		"wrong issuer": sign(gojwt.SigningMethodHS256, []byte("s3cret"), wrongIssuer),
		"wrong method": sign(gojwt.SigningMethodHS512, []byte("s3cret"), valid()),
		"wrong key":    sign(gojwt.SigningMethodHS256, []byte("other"), valid()),
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Parse(token); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	if _, err := NewService(&Config{}, newTestClaims); err == nil || !strings.Contains(err.Error(), "secret") {
		t.Errorf("expected missing secret error, got %v", err)
	}
	if _, err := NewService(&Config{Secret: "x", Method: "RS256"}, newTestClaims); err == nil {
		t.Error("expected unsupported method error")
	}
	if _, err := NewService(&Config{Secret: "x", Leeway: -time.Second}, newTestClaims); err == nil {
		t.Error("expected negative leeway error")
	}
}

type defaultingClaims struct {
	gojwt.RegisteredClaims
}

func (c *defaultingClaims) SetDefaults(now time.Time, ttl time.Duration, issuer string) {
	c.IssuedAt = gojwt.NewNumericDate(now)
	c.ExpiresAt = gojwt.NewNumericDate(now.Add(ttl))
	c.Issuer = issuer
}

func TestService_GenerateFillsDefaults(t *testing.T) {
	svc, err := NewService(&Config{Secret: "s3cret", Issuer: "accounts", TokenTTL: 2 * time.Minute},
		func() *defaultingClaims { return &defaultingClaims{} })
	if err != nil {
		t.Fatal(err)
	}
	fixed := time.Now().Truncate(time.Second)
	svc.now = func() time.Time { return fixed }

	token, err := svc.Generate(&defaultingClaims{})
	if err != nil {
		t.Fatal(err)
	}
	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Issuer != "accounts" || !claims.ExpiresAt.Time.Equal(fixed.Add(2*time.Minute)) {
		t.Errorf("unexpected defaults iss=%q exp=%v", claims.Issuer, claims.ExpiresAt)
	}
}

func TestService_Leeway(t *testing.T) {
	svc, _ := NewService(&Config{Secret: "s3cret", Leeway: time.Minute}, newTestClaims)
	c := &testClaims{RegisteredClaims: gojwt.RegisteredClaims{
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(-10 * time.Second)),
	}}
	token, _ := gojwt.NewWithClaims(gojwt.SigningMethodHS256, c).SignedString([]byte("s3cret"))
	if _, err := svc.Parse(token); err != nil {
		t.Errorf("expected token within leeway to pass, got %v", err)
	}
}
