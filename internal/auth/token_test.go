package auth

import (
	"strings"
	"testing"
)

func TestSignVerifyRoundtrip(t *testing.T) {
	secret := []byte("test-secret")
	token, err := Sign(secret, "a@x.com", 42)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := Verify(secret, token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Email != "a@x.com" || claims.UserID != 42 {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := Sign([]byte("secret-one"), "a@x.com", 1)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := Verify([]byte("secret-two"), token); err == nil {
		t.Fatal("expected verification failure")
	}
}

func TestVerifyMalformed(t *testing.T) {
	for _, tok := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJIUzI1NiJ9..sig"} {
		if _, err := Verify([]byte("secret"), tok); err == nil {
			t.Fatalf("token %q accepted", tok)
		}
	}
}

func TestVerifyTampered(t *testing.T) {
	secret := []byte("secret")
	token, err := Sign(secret, "a@x.com", 1)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("token parts = %d", len(parts))
	}
	// Swap the payload for a different one while keeping the signature.
	other, _ := Sign(secret, "b@x.com", 2)
	tampered := parts[0] + "." + strings.Split(other, ".")[1] + "." + parts[2]
	if _, err := Verify(secret, tampered); err == nil {
		t.Fatal("tampered token accepted")
	}
}
