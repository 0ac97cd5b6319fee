package auth

import (
	"strings"
	"testing"
)

func TestJWTRoundTrip(t *testing.T) {
	j := NewJWT("test-secret")

	token, err := j.Sign(42)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	uid, err := j.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if uid != 42 {
		t.Fatalf("want user 42, got %d", uid)
	}
}

func TestJWTRejectsTampered(t *testing.T) {
	j := NewJWT("test-secret")

	token, err := j.Sign(42)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	if _, err := j.Verify(tampered); err == nil {
		t.Fatal("tampered token must not verify")
	}
}

func TestJWTRejectsOtherSecret(t *testing.T) {
	token, err := NewJWT("secret-a").Sign(7)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewJWT("secret-b").Verify(token); err == nil {
		t.Fatal("token signed under another secret must not verify")
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !ComparePassword(hash, "hunter2hunter2") {
		t.Fatal("correct password rejected")
	}
	if ComparePassword(hash, "wrong") {
		t.Fatal("wrong password accepted")
	}
}
