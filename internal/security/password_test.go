package security_test

import (
	"testing"

	"github.com/geocoder89/authhub/internal/security"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := security.HashPassword("s3cret-pass")

	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if hash == "s3cret-pass" {
		t.Fatal("hash must not equal the plaintext")
	}

	if err := security.CheckPassword(hash, "s3cret-pass"); err != nil {
		t.Fatalf("check with correct password failed: %v", err)
	}

	if err := security.CheckPassword(hash, "wrong-pass"); err == nil {
		t.Fatal("check with wrong password should fail")
	}
}

func TestHashPasswordIsSalted(t *testing.T) {
	first, err := security.HashPassword("same-input")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	second, err := security.HashPassword("same-input")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}

	if first == second {
		t.Fatal("two hashes of the same input should differ (per-call salt)")
	}

	// both still verify
	if err := security.CheckPassword(first, "same-input"); err != nil {
		t.Fatalf("first hash did not verify: %v", err)
	}
	if err := security.CheckPassword(second, "same-input"); err != nil {
		t.Fatalf("second hash did not verify: %v", err)
	}
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	if err := security.CheckPassword("not-a-bcrypt-hash", "anything"); err == nil {
		t.Fatal("malformed hash should fail verification, not succeed")
	}
}
