package token

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func newTestSigner(t *testing.T, ttl time.Duration) *Signer {
	t.Helper()
	signer, err := NewSigner(testKey, ttl)
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	return signer
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	signer := newTestSigner(t, time.Hour)

	signed, err := signer.Issue("session-abc")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	sessionID, err := signer.Verify(signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sessionID != "session-abc" {
		t.Fatalf("session id = %q, want %q", sessionID, "session-abc")
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	signer := newTestSigner(t, time.Hour)
	signed, err := signer.Issue("session-abc")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	tampered := strings.Replace(signed, ".", ".x", 1)
	if _, err := signer.Verify(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("verify tampered = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	signer := newTestSigner(t, time.Minute)
	issuedAt := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	signer.now = func() time.Time { return issuedAt }

	signed, err := signer.Issue("session-abc")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	signer.now = func() time.Time { return issuedAt.Add(time.Hour) }
	if _, err := signer.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("verify expired = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	signer := newTestSigner(t, time.Hour)
	other, err := NewSigner(strings.Repeat("ff", 32), time.Hour)
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}

	signed, err := other.Issue("session-abc")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := signer.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("verify foreign = %v, want ErrInvalidToken", err)
	}
}

func TestNewSignerValidation(t *testing.T) {
	if _, err := NewSigner("zz", time.Hour); err == nil {
		t.Fatal("expected error for non-hex key")
	}
	if _, err := NewSigner("abcd", time.Hour); err == nil {
		t.Fatal("expected error for short key")
	}
	if _, err := NewSigner(testKey, 0); err == nil {
		t.Fatal("expected error for zero ttl")
	}
}
