package security_test

import (
	"testing"

	"github.com/syntherra/PooDough/internal/security"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := security.HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	ok, err := security.VerifyPassword("correct horse battery staple", hash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatalf("correct password rejected")
	}

	ok, err = security.VerifyPassword("wrong password", hash)
	if err != nil {
		t.Fatalf("verify wrong: %v", err)
	}
	if ok {
		t.Fatalf("wrong password accepted")
	}
}

func TestVerifyPassword_Malformed(t *testing.T) {
	if _, err := security.VerifyPassword("x", []byte("not a hash")); err == nil {
		t.Fatalf("malformed hash must error")
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := security.GenerateAccessToken("secret", "u1", "s1", "d1", 300000000000)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := security.ParseAccessToken(token, "secret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u1" || claims.SessionID != "s1" || claims.DeviceID != "d1" {
		t.Fatalf("claims mismatch: %+v", claims)
	}

	if _, err := security.ParseAccessToken(token, "other"); err == nil {
		t.Fatalf("wrong secret must fail")
	}
}
