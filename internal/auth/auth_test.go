package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestHashDeterministic(t *testing.T) {
	h := SHA256Hasher{}
	a := h.Hash("password1", "salt")
	b := h.Hash("password1", "salt")
	if a != b {
		t.Fatalf("same input must hash identically")
	}
	if a == h.Hash("password1", "other") {
		t.Fatalf("different salts must change the hash")
	}
	if a == h.Hash("password2", "salt") {
		t.Fatalf("different passwords must change the hash")
	}
}

func TestNewSaltUnique(t *testing.T) {
	h := SHA256Hasher{}
	a, err := h.NewSalt()
	if err != nil {
		t.Fatalf("new salt: %v", err)
	}
	b, err := h.NewSalt()
	if err != nil {
		t.Fatalf("new salt: %v", err)
	}
	if a == b {
		t.Fatalf("salts must be random")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewHMACTokenIssuer("secret", time.Hour)
	token, err := issuer.Issue("u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	userID, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if userID != "u1" {
		t.Fatalf("user id = %q, want u1", userID)
	}
}

func TestTokenRejectsTampering(t *testing.T) {
	issuer := NewHMACTokenIssuer("secret", time.Hour)
	token, err := issuer.Issue("u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	cases := []string{
		"",
		"garbage",
		token + "x",
		strings.Replace(token, ".", "x.", 1),
	}
	for _, tc := range cases {
		if _, err := issuer.Verify(tc); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("Verify(%q) = %v, want ErrInvalidToken", tc, err)
		}
	}

	other := NewHMACTokenIssuer("other-secret", time.Hour)
	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token signed with another secret must be rejected, got %v", err)
	}
}

func TestTokenExpiry(t *testing.T) {
	issuer := NewHMACTokenIssuer("secret", time.Hour)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return base }

	token, err := issuer.Issue("u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	issuer.now = func() time.Time { return base.Add(2 * time.Hour) }
	if _, err := issuer.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token must be rejected, got %v", err)
	}
}
