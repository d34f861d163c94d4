package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/geocoder89/taskhub/internal/config"
	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/geocoder89/taskhub/internal/security"
)

type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, u user.User) (user.User, error)
}

// EnsureAdminUser creates the configured admin account once. It is a no-op when
// no admin credentials are configured or the email is already registered.
func EnsureAdminUser(ctx context.Context, users AdminStore, hasher security.Hasher, cfg config.AdminConfig, log *slog.Logger) error {
	if cfg.Email == "" || cfg.Password == "" {
		return nil
	}

	// check if the user exists
	_, err := users.GetByEmail(ctx, cfg.Email)

	if err == nil {
		return nil
	}

	if !errors.Is(err, user.ErrNotFound) {
		return err
	}

	hash, err := hasher.Hash(cfg.Password)

	if err != nil {
		return err
	}

	u, err := users.Create(ctx, user.New(cfg.Name, cfg.Email, hash, user.RoleAdmin))

	if errors.Is(err, user.ErrEmailTaken) {
		return nil
	}

	if err != nil {
		return err
	}

	log.InfoContext(ctx, "admin user seeded", "user_id", u.ID, "email", u.Email)

	return nil
}
