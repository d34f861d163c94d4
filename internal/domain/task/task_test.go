package task_test

import (
	"testing"
	"time"

	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/domain/user"
)

func TestCanAccess(t *testing.T) {
	owned := task.Task{ID: 1, UserID: 10}

	tests := []struct {
		name string
		u    *user.User
		want bool
	}{
		{name: "owner", u: &user.User{ID: 10, Role: user.RoleUser}, want: true},
		{name: "admin_not_owner", u: &user.User{ID: 99, Role: user.RoleAdmin}, want: true},
		{name: "other_user", u: &user.User{ID: 11, Role: user.RoleUser}, want: false},
		{name: "unknown_role", u: &user.User{ID: 11, Role: "superuser"}, want: false},
		{name: "nil_user", u: nil, want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := task.CanAccess(owned, tt.u); got != tt.want {
				t.Fatalf("CanAccess = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApply_OnlyPresentFields(t *testing.T) {
	desc := "original description"
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tk := task.Task{Title: "original", Description: &desc, CreatedAt: created, UpdatedAt: created}

	done := true
	now := created.Add(time.Hour)
	tk.Apply(task.Patch{Completed: &done}, now)

	if tk.Title != "original" || tk.Description == nil || *tk.Description != "original description" {
		t.Fatalf("untouched fields changed: %+v", tk)
	}
	if !tk.Completed {
		t.Fatalf("completed not applied")
	}
	if !tk.UpdatedAt.Equal(now) || !tk.CreatedAt.Equal(created) {
		t.Fatalf("timestamps wrong: %+v", tk)
	}

	newTitle := "renamed"
	emptyDesc := ""
	tk.Apply(task.Patch{Title: &newTitle, Description: &emptyDesc}, now)

	if tk.Title != "renamed" || tk.Description == nil || *tk.Description != "" {
		t.Fatalf("title/description not applied: %+v", tk)
	}
	if !tk.Completed {
		t.Fatalf("completed should be kept")
	}
}

func TestApply_ClearDescription(t *testing.T) {
	desc := "keep?"
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tk := task.Task{Title: "t", Description: &desc}

	tk.Apply(task.Patch{}, now)
	if tk.Description == nil || *tk.Description != "keep?" {
		t.Fatalf("empty patch changed description: %+v", tk.Description)
	}

	tk.Apply(task.Patch{ClearDescription: true}, now)
	if tk.Description != nil {
		t.Fatalf("description should be cleared, got %q", *tk.Description)
	}
	if tk.Title != "t" {
		t.Fatalf("title changed: %q", tk.Title)
	}

	replaced := "new"
	tk.Apply(task.Patch{Description: &replaced, ClearDescription: true}, now)
	if tk.Description == nil || *tk.Description != "new" {
		t.Fatalf("explicit description should win over clear: %+v", tk.Description)
	}
}

func TestPatch_IsEmpty(t *testing.T) {
	if !(task.Patch{}).IsEmpty() {
		t.Fatalf("zero patch should be empty")
	}
	done := false
	if (task.Patch{Completed: &done}).IsEmpty() {
		t.Fatalf("patch with completed=false is not empty")
	}
	if (task.Patch{ClearDescription: true}).IsEmpty() {
		t.Fatalf("clearing the description is not empty")
	}
}
