package utils

import (
	"errors"
	"strings"
	"testing"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	in := Identity{UserID: 42, Role: "OWNER", Name: "Asha Rao", Email: "asha@example.com"}
	tok, err := NewAccessToken("secret", in, 15)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	got, err := ParseAccessToken("secret", tok.Token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != in {
		t.Fatalf("identity = %+v, want %+v", got, in)
	}
}

func TestParseAccessTokenRejects(t *testing.T) {
	tok, _ := NewAccessToken("secret", Identity{UserID: 1, Role: "CUSTOMER"}, 15)
	expired, _ := NewAccessToken("secret", Identity{UserID: 1, Role: "CUSTOMER"}, -5)

	cases := map[string]string{
		"wrong secret": tok.Token,
		"garbage":      "not.a.jwt",
		"expired":      expired.Token,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			secret := "secret"
			if name == "wrong secret" {
				secret = "other"
			}
			if _, err := ParseAccessToken(secret, raw); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("err = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	rt, err := NewRefreshToken(7)
	if err != nil {
		t.Fatal(err)
	}
	if len(rt.Raw) != 96 {
		t.Fatalf("raw length = %d, want 96", len(rt.Raw))
	}
	h := HashRefreshRaw(rt.Raw)
	if len(h) != 64 || strings.Contains(h, rt.Raw) {
		t.Fatalf("unexpected hash %q", h)
	}
	if h != HashRefreshRaw(rt.Raw) {
		t.Fatal("hash is not deterministic")
	}
}

func TestHashPassword(t *testing.T) {
	if _, err := HashPassword("short", 4); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("err = %v, want ErrPasswordTooShort", err)
	}
	h, err := HashPassword("correct horse", 4)
	if err != nil {
		t.Fatal(err)
	}
	if !VerifyPassword(h, "correct horse") || VerifyPassword(h, "wrong horse") {
		t.Fatal("password verification mismatch")
	}
}
