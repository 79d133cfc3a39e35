package auth

import (
	"testing"
	"time"
)

func testJWTConfig() *JWTConfig {
	return &JWTConfig{
		Secret:   []byte("test-secret"),
		Issuer:   "parley-test",
		Audience: "parley-test",
		TTL:      time.Hour,
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	cfg := testJWTConfig()

	token, err := GenerateToken(cfg, 7, "alice")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := ValidateToken(cfg, token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "alice" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestValidateExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	cfg.TTL = -time.Minute

	token, err := GenerateToken(cfg, 7, "alice")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := ValidateToken(cfg, token); err == nil {
		t.Fatal("expired token must be rejected")
	}
}

func TestValidateIssuerAndAudience(t *testing.T) {
	cfg := testJWTConfig()

	token, err := GenerateToken(cfg, 7, "alice")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	wrongIssuer := testJWTConfig()
	wrongIssuer.Issuer = "someone-else"
	if _, err := ValidateToken(wrongIssuer, token); err == nil {
		t.Fatal("wrong issuer must be rejected")
	}

	wrongAudience := testJWTConfig()
	wrongAudience.Audience = "someone-else"
	if _, err := ValidateToken(wrongAudience, token); err == nil {
		t.Fatal("wrong audience must be rejected")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "secret1" {
		t.Fatal("hash must differ from the plaintext")
	}
	if err := ComparePassword(hash, "secret1"); err != nil {
		t.Fatalf("compare password: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Fatal("wrong password must not match")
	}
}
