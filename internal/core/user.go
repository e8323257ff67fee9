package core

import (
	"errors"
	"regexp"
	"strings"
)

// User is a registered account. PasswordHash and Salt are produced by the
// injected hashing collaborator; core never hashes.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Salt         string
}

var emailPattern = regexp.MustCompile(
	`^[a-zA-Z0-9+._%\-]{1,256}@[a-zA-Z0-9][a-zA-Z0-9\-]{0,64}(\.[a-zA-Z0-9][a-zA-Z0-9\-]{0,25})+$`)

const (
	ErrBlankRegistration ConflictError = "Email, password and name should not be blank"
	ErrBlankCredentials  ConflictError = "email and password should not be blank"
	ErrPasswordLength    ConflictError = "Password should be of min 8 and max 50 character in length"
	ErrNameLength        ConflictError = "Name should be of min 4 and max 24 character in length"
	ErrInvalidEmail      ConflictError = "Invalid Email"
)

// ErrUserNotFound signals a lookup for an unknown email.
var ErrUserNotFound = errors.New("user not found")

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

type LoginInput struct {
	Email    string
	Password string
}

func (in RegisterInput) Validate() error {
	if strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Password) == "" || strings.TrimSpace(in.Name) == "" {
		return ErrBlankRegistration
	}
	if l := len(in.Password); l < 8 || l > 50 {
		return ErrPasswordLength
	}
	if l := len(in.Name); l < 4 || l > 24 {
		return ErrNameLength
	}
	if !emailPattern.MatchString(in.Email) {
		return ErrInvalidEmail
	}
	return nil
}

func (in LoginInput) Validate() error {
	if strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Password) == "" {
		return ErrBlankCredentials
	}
	if l := len(in.Password); l < 8 || l > 50 {
		return ErrPasswordLength
	}
	if !emailPattern.MatchString(in.Email) {
		return ErrInvalidEmail
	}
	return nil
}
