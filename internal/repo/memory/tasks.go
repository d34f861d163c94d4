package memory

import (
	"context"
	"fmt"

	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/domain/user"
)

type TasksRepo struct {
	s *Store
}

func (r *TasksRepo) GetByID(ctx context.Context, id int64) (task.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tasks[id]
	if !ok {
		return task.Task{}, task.ErrNotFound
	}

	return cloneTask(t), nil
}

func (r *TasksRepo) ListAll(ctx context.Context) ([]task.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]task.Task, 0, len(r.s.tasks))
	for _, t := range r.s.tasks {
		out = append(out, cloneTask(t))
	}

	sortNewestFirst(out)
	return out, nil
}

func (r *TasksRepo) ListByOwner(ctx context.Context, ownerID int64) ([]task.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]task.Task, 0)
	for _, t := range r.s.tasks {
		if t.UserID == ownerID {
			out = append(out, cloneTask(t))
		}
	}

	sortNewestFirst(out)
	return out, nil
}

func (r *TasksRepo) Create(ctx context.Context, t task.Task) (task.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	// foreign key
	if _, ok := r.s.users[t.UserID]; !ok {
		return task.Task{}, fmt.Errorf("create task: owner %d: %w", t.UserID, user.ErrNotFound)
	}

	r.s.nextTaskID++
	t.ID = r.s.nextTaskID

	r.s.tasks[t.ID] = cloneTask(t)

	return cloneTask(t), nil
}

func (r *TasksRepo) Save(ctx context.Context, t task.Task) (task.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.tasks[t.ID]
	if !ok {
		return task.Task{}, task.ErrNotFound
	}

	// owner and creation time are immutable
	t.UserID = existing.UserID
	t.CreatedAt = existing.CreatedAt

	r.s.tasks[t.ID] = cloneTask(t)

	return cloneTask(t), nil
}

func (r *TasksRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tasks[id]; !ok {
		return task.ErrNotFound
	}

	delete(r.s.tasks, id)
	return nil
}
