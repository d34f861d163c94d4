package task

import (
	"errors"
	"time"

	"github.com/geocoder89/taskhub/internal/domain/user"
)

var ErrNotFound = errors.New("task not found")

type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	UserID      int64     `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Patch carries a partial update. A nil field means "leave as is".
// ClearDescription resets the description to null and is ignored when
// Description is set.
type Patch struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Completed        *bool
}

func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && !p.ClearDescription && p.Completed == nil
}

// Apply merges the present fields of p into t and bumps UpdatedAt.
func (t *Task) Apply(p Patch, now time.Time) {
	if p.Title != nil {
		t.Title = *p.Title
	}

	switch {
	case p.Description != nil:
		d := *p.Description
		t.Description = &d
	case p.ClearDescription:
		t.Description = nil
	}

	if p.Completed != nil {
		t.Completed = *p.Completed
	}

	t.UpdatedAt = now
}

// CanAccess is the ownership rule: admins see everything, everyone else only
// their own tasks. A nil user never has access.
func CanAccess(t Task, u *user.User) bool {
	if u == nil {
		return false
	}

	return u.IsAdmin() || t.UserID == u.ID
}

func New(title string, description *string, completed bool, ownerID int64) Task {
	now := time.Now().UTC()

	return Task{
		Title:       title,
		Description: description,
		Completed:   completed,
		UserID:      ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
