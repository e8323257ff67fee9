package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"finflio/internal/auth"
	"finflio/internal/core"
	"finflio/internal/log"
	"finflio/internal/store"
)

// ErrIncorrectCredentials covers every login failure. Unknown email and
// wrong password are deliberately indistinguishable.
var ErrIncorrectCredentials = errors.New("Incorrect 'email' or 'password'")

// UserService handles registration and login against the user store.
type UserService struct {
	store  store.UserStore
	hasher auth.Hasher
	tokens auth.TokenIssuer
}

func NewUserService(s store.UserStore, hasher auth.Hasher, tokens auth.TokenIssuer) *UserService {
	return &UserService{
		store:  s,
		hasher: hasher,
		tokens: tokens,
	}
}

// Register validates the input and creates the account with a fresh salt.
func (s *UserService) Register(ctx context.Context, in core.RegisterInput) error {
	if err := in.Validate(); err != nil {
		return err
	}

	salt, err := s.hasher.NewSalt()
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}

	user := core.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: s.hasher.Hash(in.Password, salt),
		Salt:         salt,
	}
	if err := s.store.InsertUser(ctx, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User registered",
		log.NewFields().
			WithComponent(log.ComponentService).
			WithOperation(log.OpRegister).
			WithUser(user.ID).
			Args()...)
	return nil
}

// Login verifies the credentials and returns a bearer token for the user.
func (s *UserService) Login(ctx context.Context, in core.LoginInput) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}

	user, err := s.store.FindUserByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			return "", ErrIncorrectCredentials
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if s.hasher.Hash(in.Password, user.Salt) != user.PasswordHash {
		return "", ErrIncorrectCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	slog.InfoContext(ctx, "User logged in",
		log.NewFields().
			WithComponent(log.ComponentService).
			WithOperation(log.OpLogin).
			WithUser(user.ID).
			Args()...)
	return token, nil
}
