package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/geocoder89/taskhub/internal/domain/user"
)

type fakeUsers struct {
	getFn func(ctx context.Context, id int64) (user.User, error)
	calls int
}

func (f *fakeUsers) GetByID(ctx context.Context, id int64) (user.User, error) {
	f.calls++
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return user.User{}, user.ErrNotFound
}

func TestStrategy_Authenticate(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	tokenFor := func(t *testing.T, id int64, role user.Role) string {
		t.Helper()
		raw, err := m.GenerateAccessToken(id, role)
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		return raw
	}

	t.Run("live_user_is_returned", func(t *testing.T) {
		users := &fakeUsers{getFn: func(ctx context.Context, id int64) (user.User, error) {
			return user.User{ID: id, Name: "John Doe", Role: user.RoleUser}, nil
		}}

		got, err := NewStrategy(m, users).Authenticate(context.Background(), tokenFor(t, 3, user.RoleUser))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == nil || got.ID != 3 {
			t.Fatalf("got %+v, want user 3", got)
		}
		if users.calls != 1 {
			t.Fatalf("expected exactly one store lookup, got %d", users.calls)
		}
	})

	t.Run("role_comes_from_store_not_token", func(t *testing.T) {
		users := &fakeUsers{getFn: func(ctx context.Context, id int64) (user.User, error) {
			return user.User{ID: id, Role: user.RoleUser}, nil
		}}

		got, err := NewStrategy(m, users).Authenticate(context.Background(), tokenFor(t, 9, user.RoleAdmin))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Role != user.RoleUser {
			t.Fatalf("got role %q, want demoted role user", got.Role)
		}
	})

	t.Run("deleted_user_yields_nil_identity", func(t *testing.T) {
		users := &fakeUsers{}

		got, err := NewStrategy(m, users).Authenticate(context.Background(), tokenFor(t, 5, user.RoleAdmin))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Fatalf("expected nil identity, got %+v", got)
		}
	})

	t.Run("invalid_token_never_hits_store", func(t *testing.T) {
		users := &fakeUsers{}

		_, err := NewStrategy(m, users).Authenticate(context.Background(), "not-a-token")
		if !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("got %v, want ErrInvalidToken", err)
		}
		if users.calls != 0 {
			t.Fatalf("store should not be queried for an invalid token")
		}
	})

	t.Run("store_failure_propagates", func(t *testing.T) {
		boom := errors.New("connection refused")
		users := &fakeUsers{getFn: func(ctx context.Context, id int64) (user.User, error) {
			return user.User{}, boom
		}}

		_, err := NewStrategy(m, users).Authenticate(context.Background(), tokenFor(t, 1, user.RoleUser))
		if !errors.Is(err, boom) {
			t.Fatalf("got %v, want store error", err)
		}
	})
}
