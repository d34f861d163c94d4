package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/geocoder89/taskhub/internal/security"
)

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, u user.User) (user.User, error)
}

type TokenIssuer interface {
	GenerateAccessToken(userID int64, role user.Role) (string, error)
}

type SignUpInput struct {
	Name     string
	Email    string
	Role     user.Role
	Password string
}

type AuthResult struct {
	AccessToken string      `json:"accessToken"`
	User        user.Public `json:"user"`
}

type AuthService struct {
	users  UserStore
	hasher security.Hasher
	tokens TokenIssuer
}

func NewAuthService(users UserStore, hasher security.Hasher, tokens TokenIssuer) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("lookup user: %w", err)
	}

	err = s.hasher.Verify(u.PasswordHash, password)

	if err != nil {
		if errors.Is(err, security.ErrPasswordMismatch) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, fmt.Errorf("verify password: %w", err)
	}

	return s.issue(u)
}

func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (AuthResult, error) {
	_, err := s.users.GetByEmail(ctx, in.Email)

	if err == nil {
		return AuthResult{}, ErrUserExists
	}

	if !errors.Is(err, user.ErrNotFound) {
		return AuthResult{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)

	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	// the unique index still decides a concurrent sign-up race
	u, err := s.users.Create(ctx, user.New(in.Name, in.Email, hash, in.Role))

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return AuthResult{}, ErrUserExists
		}
		return AuthResult{}, fmt.Errorf("create user: %w", err)
	}

	return s.issue(u)
}

func (s *AuthService) issue(u user.User) (AuthResult, error) {
	token, err := s.tokens.GenerateAccessToken(u.ID, u.Role)

	if err != nil {
		return AuthResult{}, fmt.Errorf("sign token: %w", err)
	}

	return AuthResult{AccessToken: token, User: u.Public()}, nil
}
