package actorctx

import (
	"context"
	"testing"

	"github.com/geocoder89/taskhub/internal/domain/user"
)

func TestUserFrom(t *testing.T) {
	if _, ok := UserFrom(context.Background()); ok {
		t.Fatalf("empty context should carry no user")
	}

	if _, ok := UserFrom(WithUser(context.Background(), nil)); ok {
		t.Fatalf("a nil user should read back as absent")
	}

	u := &user.User{ID: 7, Role: user.RoleAdmin}
	got, ok := UserFrom(WithUser(context.Background(), u))
	if !ok || got.ID != 7 {
		t.Fatalf("got %+v ok=%v", got, ok)
	}
}
