package service_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/geocoder89/taskhub/internal/repo/memory"
	"github.com/geocoder89/taskhub/internal/service"
)

type taskFixture struct {
	store *memory.Store
	svc   *service.TaskService
	alice *user.User
	bob   *user.User
	admin *user.User
}

func newTaskFixture(t *testing.T) taskFixture {
	t.Helper()

	store := memory.NewStore()
	ctx := context.Background()

	mk := func(name, email string, role user.Role) *user.User {
		u, err := store.Users().Create(ctx, user.New(name, email, "hash", role))
		if err != nil {
			t.Fatalf("seed user %s: %v", email, err)
		}
		return &u
	}

	return taskFixture{
		store: store,
		svc:   service.NewTaskService(store.Tasks()),
		alice: mk("Alice Liddell", "alice@example.com", user.RoleUser),
		bob:   mk("Bob Builder", "bob@example.com", user.RoleUser),
		admin: mk("Ada Admin", "admin@example.com", user.RoleAdmin),
	}
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func (f taskFixture) create(t *testing.T, owner *user.User, title string) task.Task {
	t.Helper()

	created, err := f.svc.Create(context.Background(), service.CreateTaskInput{
		Title:       title,
		Description: strPtr(title + " description"),
	}, owner)
	if err != nil {
		t.Fatalf("create %q: %v", title, err)
	}
	return created
}

func (f taskFixture) snapshot(t *testing.T) []task.Task {
	t.Helper()

	items, err := f.store.Tasks().ListAll(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return items
}

func TestTaskService_CreateAssignsOwner(t *testing.T) {
	f := newTaskFixture(t)

	created := f.create(t, f.alice, "write report")

	if created.UserID != f.alice.ID {
		t.Fatalf("got owner %d, want %d", created.UserID, f.alice.ID)
	}
	if created.Completed {
		t.Fatalf("completed should default to false")
	}
	if created.ID == 0 {
		t.Fatalf("expected an assigned id")
	}
}

func TestTaskService_CreateRespectsCompleted(t *testing.T) {
	f := newTaskFixture(t)

	created, err := f.svc.Create(context.Background(), service.CreateTaskInput{
		Title:     "already done",
		Completed: boolPtr(true),
	}, f.bob)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.Completed || created.Description != nil {
		t.Fatalf("unexpected task %+v", created)
	}
}

func TestTaskService_FindOneOwnership(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	aliceTask := f.create(t, f.alice, "alice only")

	tests := []struct {
		name    string
		caller  *user.User
		wantErr error
	}{
		{name: "owner", caller: f.alice},
		{name: "admin", caller: f.admin},
		{name: "other_user", caller: f.bob, wantErr: service.ErrTaskNotFound},
		{name: "nil_identity", caller: nil, wantErr: service.ErrTaskNotFound},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.FindOne(ctx, aliceTask.ID, tt.caller)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID != aliceTask.ID {
				t.Fatalf("got task %d, want %d", got.ID, aliceTask.ID)
			}
		})
	}
}

func TestTaskService_MissingAndForeignLookIdentical(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	aliceTask := f.create(t, f.alice, "alice only")

	_, foreign := f.svc.FindOne(ctx, aliceTask.ID, f.bob)
	_, missing := f.svc.FindOne(ctx, aliceTask.ID+1000, f.bob)

	if !errors.Is(foreign, service.ErrTaskNotFound) || !errors.Is(missing, service.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound for both, got %v / %v", foreign, missing)
	}
	if foreign.Error() != missing.Error() {
		t.Fatalf("messages differ: %q vs %q", foreign, missing)
	}
}

func TestTaskService_FindAllScoping(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	f.create(t, f.admin, "admin task")
	f.create(t, f.alice, "alice 1")
	f.create(t, f.bob, "bob task")
	f.create(t, f.alice, "alice 2")

	owners := func(items []task.Task) map[int64]bool {
		out := map[int64]bool{}
		for _, it := range items {
			out[it.UserID] = true
		}
		return out
	}

	aliceItems, err := f.svc.FindAll(ctx, f.alice)
	if err != nil {
		t.Fatalf("find all (alice): %v", err)
	}
	if len(aliceItems) != 2 || !reflect.DeepEqual(owners(aliceItems), map[int64]bool{f.alice.ID: true}) {
		t.Fatalf("alice should see only her 2 tasks, got %+v", aliceItems)
	}
	if aliceItems[0].Title != "alice 2" {
		t.Fatalf("expected newest first, got %q", aliceItems[0].Title)
	}

	adminItems, err := f.svc.FindAll(ctx, f.admin)
	if err != nil {
		t.Fatalf("find all (admin): %v", err)
	}
	wantOwners := map[int64]bool{f.admin.ID: true, f.alice.ID: true, f.bob.ID: true}
	if len(adminItems) != 4 || !reflect.DeepEqual(owners(adminItems), wantOwners) {
		t.Fatalf("admin should see all 4 tasks, got %+v", adminItems)
	}
}

func TestTaskService_FindAllEmptyIsNotNil(t *testing.T) {
	f := newTaskFixture(t)

	items, err := f.svc.FindAll(context.Background(), f.bob)
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", items)
	}
}

func TestTaskService_PartialUpdate(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	original := f.create(t, f.alice, "keep my title")

	updated, err := f.svc.Update(ctx, original.ID, task.Patch{Completed: boolPtr(true)}, f.alice)
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if !updated.Completed {
		t.Fatalf("completed not applied")
	}
	if updated.Title != original.Title {
		t.Fatalf("title changed: %q -> %q", original.Title, updated.Title)
	}
	if updated.Description == nil || *updated.Description != *original.Description {
		t.Fatalf("description changed: %v -> %v", original.Description, updated.Description)
	}

	reloaded, err := f.svc.FindOne(ctx, original.ID, f.alice)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded.Completed || reloaded.Title != original.Title {
		t.Fatalf("update not persisted: %+v", reloaded)
	}
}

func TestTaskService_AdminCanUpdateAndRemoveAnyTask(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	bobTask := f.create(t, f.bob, "bob's")

	updated, err := f.svc.Update(ctx, bobTask.ID, task.Patch{Title: strPtr("renamed by admin")}, f.admin)
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if updated.Title != "renamed by admin" || updated.UserID != f.bob.ID {
		t.Fatalf("unexpected task after admin update: %+v", updated)
	}

	if err := f.svc.Remove(ctx, bobTask.ID, f.admin); err != nil {
		t.Fatalf("admin remove: %v", err)
	}
}

func TestTaskService_NonOwnerMutationsLeaveStoreUnchanged(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	aliceTask := f.create(t, f.alice, "alice only")
	before := f.snapshot(t)

	_, err := f.svc.Update(ctx, aliceTask.ID, task.Patch{Title: strPtr("hijacked"), Completed: boolPtr(true)}, f.bob)
	if !errors.Is(err, service.ErrTaskNotFound) {
		t.Fatalf("update by non-owner: got %v, want ErrTaskNotFound", err)
	}

	err = f.svc.Remove(ctx, aliceTask.ID, f.bob)
	if !errors.Is(err, service.ErrTaskNotFound) {
		t.Fatalf("remove by non-owner: got %v, want ErrTaskNotFound", err)
	}

	after := f.snapshot(t)
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("store mutated by non-owner:\nbefore=%+v\nafter=%+v", before, after)
	}
}

func TestTaskService_RemoveTwice(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	created := f.create(t, f.alice, "temporary")

	if err := f.svc.Remove(ctx, created.ID, f.alice); err != nil {
		t.Fatalf("first remove: %v", err)
	}

	err := f.svc.Remove(ctx, created.ID, f.alice)
	if !errors.Is(err, service.ErrTaskNotFound) {
		t.Fatalf("second remove: got %v, want ErrTaskNotFound", err)
	}
}

func TestTaskService_NilIdentityIsRejected(t *testing.T) {
	f := newTaskFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, service.CreateTaskInput{Title: "x"}, nil); !errors.Is(err, service.ErrUnauthenticated) {
		t.Fatalf("create: got %v, want ErrUnauthenticated", err)
	}
	if _, err := f.svc.FindAll(ctx, nil); !errors.Is(err, service.ErrUnauthenticated) {
		t.Fatalf("find all: got %v, want ErrUnauthenticated", err)
	}
}

// failingTaskStore checks that storage errors are not folded into NotFound.
type failingTaskStore struct {
	err error
}

func (f failingTaskStore) GetByID(ctx context.Context, id int64) (task.Task, error) {
	return task.Task{}, f.err
}
func (f failingTaskStore) ListAll(ctx context.Context) ([]task.Task, error) { return nil, f.err }
func (f failingTaskStore) ListByOwner(ctx context.Context, ownerID int64) ([]task.Task, error) {
	return nil, f.err
}
func (f failingTaskStore) Create(ctx context.Context, t task.Task) (task.Task, error) {
	return task.Task{}, f.err
}
func (f failingTaskStore) Save(ctx context.Context, t task.Task) (task.Task, error) {
	return task.Task{}, f.err
}
func (f failingTaskStore) Delete(ctx context.Context, id int64) error { return f.err }

func TestTaskService_StorageErrorsPropagate(t *testing.T) {
	boom := errors.New("connection lost")
	svc := service.NewTaskService(failingTaskStore{err: boom})
	ctx := context.Background()
	u := &user.User{ID: 1, Role: user.RoleUser}

	if _, err := svc.FindOne(ctx, 1, u); !errors.Is(err, boom) || errors.Is(err, service.ErrTaskNotFound) {
		t.Fatalf("find one: got %v", err)
	}
	if _, err := svc.FindAll(ctx, u); !errors.Is(err, boom) {
		t.Fatalf("find all: got %v", err)
	}
	if _, err := svc.Create(ctx, service.CreateTaskInput{Title: "x"}, u); !errors.Is(err, boom) {
		t.Fatalf("create: got %v", err)
	}
}
