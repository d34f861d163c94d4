package auth

import (
	"context"
	"errors"

	"github.com/geocoder89/taskhub/internal/domain/user"
)

type UserFinder interface {
	GetByID(ctx context.Context, id int64) (user.User, error)
}

type TokenVerifier interface {
	VerifyAccessToken(token string) (*Claims, error)
}

// Strategy turns a bearer token into the live user behind it.
type Strategy struct {
	tokens TokenVerifier
	users  UserFinder
}

func NewStrategy(tokens TokenVerifier, users UserFinder) *Strategy {
	return &Strategy{tokens: tokens, users: users}
}

// Authenticate returns (nil, nil) when the token is valid but its user no
// longer exists. Callers must treat a nil user as unauthenticated.
//
// The user is always re-read from the store; the role embedded in the token
// is never trusted, so demotions and deletions apply on the next request.
func (s *Strategy) Authenticate(ctx context.Context, raw string) (*user.User, error) {
	claims, err := s.tokens.VerifyAccessToken(raw)

	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, claims.UserID)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &u, nil
}
