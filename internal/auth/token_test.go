package auth

import (
	"testing"
	"time"
)

func TestTokenService(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		svc := NewTokenService("test-secret", 30*time.Minute)

		token, err := svc.Issue("alice")
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}

		subject, err := svc.Validate(token)
		if err != nil {
			t.Fatalf("failed to validate token: %v", err)
		}
		if subject != "alice" {
			t.Errorf("expected subject alice, got %s", subject)
		}
	})

	t.Run("Expired", func(t *testing.T) {
		svc := NewTokenService("test-secret", 30*time.Minute)

		issued := time.Now()
		svc.now = func() time.Time { return issued }
		token, err := svc.Issue("alice")
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}

		// One second past the expiry instant.
		svc.now = func() time.Time { return issued.Add(30*time.Minute + time.Second) }
		if _, err := svc.Validate(token); err != ErrInvalidToken {
			t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
		}
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token, err := NewTokenService("secret-a", time.Minute).Issue("alice")
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}

		if _, err := NewTokenService("secret-b", time.Minute).Validate(token); err != ErrInvalidToken {
			t.Errorf("expected ErrInvalidToken for wrong secret, got %v", err)
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		svc := NewTokenService("test-secret", time.Minute)
		if _, err := svc.Validate("not-a-token"); err != ErrInvalidToken {
			t.Errorf("expected ErrInvalidToken for garbage, got %v", err)
		}
	})
}
