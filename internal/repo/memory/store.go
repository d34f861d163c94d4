package memory

import (
	"sort"
	"sync"

	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/domain/user"
)

// Store keeps users and tasks in one map set behind a single lock so that
// deleting a user can cascade to their tasks atomically.
type Store struct {
	mu sync.RWMutex

	users   map[int64]user.User
	byEmail map[string]int64
	tasks   map[int64]task.Task

	nextUserID int64
	nextTaskID int64
}

func NewStore() *Store {
	return &Store{
		users:   make(map[int64]user.User),
		byEmail: make(map[string]int64),
		tasks:   make(map[int64]task.Task),
	}
}

func (s *Store) Users() *UsersRepo {
	return &UsersRepo{s: s}
}

func (s *Store) Tasks() *TasksRepo {
	return &TasksRepo{s: s}
}

// newest first, id breaks ties
func sortNewestFirst(items []task.Task) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
}

func cloneTask(t task.Task) task.Task {
	if t.Description != nil {
		d := *t.Description
		t.Description = &d
	}
	return t
}
