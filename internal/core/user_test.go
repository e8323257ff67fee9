package core

import (
	"errors"
	"testing"
)

func TestRegisterInputValidate(t *testing.T) {
	good := RegisterInput{Email: "ada@example.com", Password: "correcthorse", Name: "Ada L"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		in   RegisterInput
		want ConflictError
	}{
		{"blank email", RegisterInput{Password: "correcthorse", Name: "Ada L"}, ErrBlankRegistration},
		{"blank name", RegisterInput{Email: "ada@example.com", Password: "correcthorse"}, ErrBlankRegistration},
		{"short password", RegisterInput{Email: "ada@example.com", Password: "short", Name: "Ada L"}, ErrPasswordLength},
		{"short name", RegisterInput{Email: "ada@example.com", Password: "correcthorse", Name: "al"}, ErrNameLength},
		{"bad email", RegisterInput{Email: "not-an-email", Password: "correcthorse", Name: "Ada L"}, ErrInvalidEmail},
	}
	for _, tc := range cases {
		if err := tc.in.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: want %q, got %v", tc.name, tc.want, err)
		}
	}
}

func TestLoginInputValidate(t *testing.T) {
	good := LoginInput{Email: "ada@example.com", Password: "correcthorse"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (LoginInput{Email: "ada@example.com"}).Validate(); !errors.Is(err, ErrBlankCredentials) {
		t.Fatalf("expected blank-credentials conflict, got %v", err)
	}
	if err := (LoginInput{Email: "bad", Password: "correcthorse"}).Validate(); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected invalid email, got %v", err)
	}
}
