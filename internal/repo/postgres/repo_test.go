package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/geocoder89/taskhub/internal/db"
	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/geocoder89/taskhub/internal/observability"
	"github.com/geocoder89/taskhub/internal/repo/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// openTestPool connects to TEST_DB_DSN, applies migrations and truncates
// both tables. Tests are skipped when the variable is unset.
func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, dsn, db.PoolOptions{})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := db.Migrate(ctx, pool, db.MigrationSource("")); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if _, err := pool.Exec(ctx, `TRUNCATE tasks, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	return pool
}

func newRepos(t *testing.T) (*postgres.UsersRepo, *postgres.TasksRepo) {
	pool := openTestPool(t)
	opts := postgres.Options{Prom: observability.NewProm(prometheus.NewRegistry())}

	return postgres.NewUsersRepo(pool, opts), postgres.NewTasksRepo(pool, opts)
}

func TestUsersRepo_CreateAndLookup(t *testing.T) {
	users, _ := newRepos(t)
	ctx := context.Background()

	created, err := users.Create(ctx, user.New("John Doe", "john@example.com", "hash", user.RoleUser))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID <= 0 {
		t.Fatalf("expected a positive id, got %d", created.ID)
	}

	byEmail, err := users.GetByEmail(ctx, "john@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail.ID != created.ID || byEmail.Role != user.RoleUser || byEmail.PasswordHash != "hash" {
		t.Fatalf("unexpected user %+v", byEmail)
	}

	if _, err := users.GetByID(ctx, created.ID+1000); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}

	_, err = users.Create(ctx, user.New("John Again", "john@example.com", "hash", user.RoleAdmin))
	if !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("got %v, want ErrEmailTaken", err)
	}
}

func TestTasksRepo_Lifecycle(t *testing.T) {
	users, tasks := newRepos(t)
	ctx := context.Background()

	alice, err := users.Create(ctx, user.New("Alice A", "alice@example.com", "h", user.RoleUser))
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}
	bob, err := users.Create(ctx, user.New("Bobby B", "bob@example.com", "h", user.RoleUser))
	if err != nil {
		t.Fatalf("create bob: %v", err)
	}

	desc := "weekly"
	first, err := tasks.Create(ctx, task.New("groceries", &desc, false, alice.ID))
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err := tasks.Create(ctx, task.New("laundry", nil, false, bob.ID)); err != nil {
		t.Fatalf("create task: %v", err)
	}

	all, err := tasks.ListAll(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("list all: %v (%d tasks)", err, len(all))
	}

	mine, err := tasks.ListByOwner(ctx, alice.ID)
	if err != nil || len(mine) != 1 || mine[0].ID != first.ID {
		t.Fatalf("list by owner: %v %+v", err, mine)
	}
	if mine[0].Description == nil || *mine[0].Description != "weekly" {
		t.Fatalf("description not persisted: %+v", mine[0])
	}

	first.Completed = true
	first.UpdatedAt = time.Now().UTC()
	saved, err := tasks.Save(ctx, first)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !saved.Completed || saved.UserID != alice.ID {
		t.Fatalf("unexpected saved task %+v", saved)
	}

	if err := tasks.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := tasks.Delete(ctx, first.ID); !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("second delete: got %v, want ErrNotFound", err)
	}
	if _, err := tasks.Save(ctx, first); !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("save missing: got %v, want ErrNotFound", err)
	}
}

func TestTasksRepo_UnknownOwnerAndCascade(t *testing.T) {
	users, tasks := newRepos(t)
	ctx := context.Background()

	if _, err := tasks.Create(ctx, task.New("orphan", nil, false, 424242)); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("got %v, want wrapped user.ErrNotFound", err)
	}

	carol, _ := users.Create(ctx, user.New("Carol C", "carol@example.com", "h", user.RoleUser))
	tk, err := tasks.Create(ctx, task.New("gone soon", nil, false, carol.ID))
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err := users.Delete(ctx, carol.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	if _, err := tasks.GetByID(ctx, tk.ID); !errors.Is(err, task.ErrNotFound) {
		t.Fatalf("task survived owner deletion: %v", err)
	}
}
