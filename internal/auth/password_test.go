package auth

import "testing"

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	if hash == "secret123" {
		t.Fatal("hash must not equal the plaintext password")
	}

	if !VerifyPassword(hash, "secret123") {
		t.Error("correct password should verify")
	}

	if VerifyPassword(hash, "wrong") {
		t.Error("wrong password should not verify")
	}
}
