package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/domain/user"
)

// TaskStore is the persistence side of the task service. ListAll and
// ListByOwner return tasks newest first.
type TaskStore interface {
	GetByID(ctx context.Context, id int64) (task.Task, error)
	ListAll(ctx context.Context) ([]task.Task, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]task.Task, error)
	Create(ctx context.Context, t task.Task) (task.Task, error)
	Save(ctx context.Context, t task.Task) (task.Task, error)
	Delete(ctx context.Context, id int64) error
}

type CreateTaskInput struct {
	Title       string
	Description *string
	Completed   *bool
}

type TaskService struct {
	tasks TaskStore
	now   func() time.Time
}

func NewTaskService(tasks TaskStore) *TaskService {
	return &TaskService{tasks: tasks, now: time.Now}
}

func (s *TaskService) Create(ctx context.Context, in CreateTaskInput, u *user.User) (task.Task, error) {
	if u == nil {
		return task.Task{}, ErrUnauthenticated
	}

	completed := false
	if in.Completed != nil {
		completed = *in.Completed
	}

	t, err := s.tasks.Create(ctx, task.New(in.Title, in.Description, completed, u.ID))

	if err != nil {
		return task.Task{}, fmt.Errorf("create task: %w", err)
	}

	return t, nil
}

func (s *TaskService) FindAll(ctx context.Context, u *user.User) ([]task.Task, error) {
	if u == nil {
		return nil, ErrUnauthenticated
	}

	var (
		items []task.Task
		err   error
	)

	// filter in the query, not after it
	if u.IsAdmin() {
		items, err = s.tasks.ListAll(ctx)
	} else {
		items, err = s.tasks.ListByOwner(ctx, u.ID)
	}

	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	if items == nil {
		items = []task.Task{}
	}

	return items, nil
}

func (s *TaskService) FindOne(ctx context.Context, id int64, u *user.User) (task.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)

	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			return task.Task{}, ErrTaskNotFound
		}
		return task.Task{}, fmt.Errorf("get task: %w", err)
	}

	if !task.CanAccess(t, u) {
		return task.Task{}, ErrTaskNotFound
	}

	return t, nil
}

func (s *TaskService) Update(ctx context.Context, id int64, patch task.Patch, u *user.User) (task.Task, error) {
	t, err := s.FindOne(ctx, id, u)

	if err != nil {
		return task.Task{}, err
	}

	t.Apply(patch, s.now().UTC())

	saved, err := s.tasks.Save(ctx, t)

	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			return task.Task{}, ErrTaskNotFound
		}
		return task.Task{}, fmt.Errorf("save task: %w", err)
	}

	return saved, nil
}

func (s *TaskService) Remove(ctx context.Context, id int64, u *user.User) error {
	t, err := s.FindOne(ctx, id, u)

	if err != nil {
		return err
	}

	err = s.tasks.Delete(ctx, t.ID)

	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}

	return nil
}
