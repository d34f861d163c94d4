package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/domain/user"
)

type TasksRepo struct {
	db *sql.DB
}

const taskColumns = `id, title, description, completed, user_id, created_at, updated_at`

func scanTask(row rowScanner) (task.Task, error) {
	var (
		t                    task.Task
		description          sql.NullString
		createdAt, updatedAt int64
	)

	if err := row.Scan(&t.ID, &t.Title, &description, &t.Completed, &t.UserID, &createdAt, &updatedAt); err != nil {
		return task.Task{}, err
	}

	if description.Valid {
		d := description.String
		t.Description = &d
	}
	t.CreatedAt = fromMillis(createdAt)
	t.UpdatedAt = fromMillis(updatedAt)

	return t, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func (r *TasksRepo) GetByID(ctx context.Context, id int64) (task.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return task.Task{}, task.ErrNotFound
	}
	return t, err
}

func (r *TasksRepo) ListAll(ctx context.Context) ([]task.Task, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC, id DESC`)
}

func (r *TasksRepo) ListByOwner(ctx context.Context, ownerID int64) ([]task.Task, error) {
	return r.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE user_id = ? ORDER BY created_at DESC, id DESC`, ownerID)
}

func (r *TasksRepo) list(ctx context.Context, query string, args ...any) ([]task.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	output := make([]task.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		output = append(output, t)
	}

	return output, rows.Err()
}

func (r *TasksRepo) Create(ctx context.Context, t task.Task) (task.Task, error) {
	t.CreatedAt = t.CreatedAt.Truncate(time.Millisecond)
	t.UpdatedAt = t.UpdatedAt.Truncate(time.Millisecond)

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (title, description, completed, user_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		t.Title, nullString(t.Description), t.Completed, t.UserID, toMillis(t.CreatedAt), toMillis(t.UpdatedAt),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return task.Task{}, fmt.Errorf("create task: owner %d: %w", t.UserID, user.ErrNotFound)
		}
		return task.Task{}, err
	}

	t.ID, err = res.LastInsertId()
	if err != nil {
		return task.Task{}, err
	}

	return t, nil
}

// Save overwrites the mutable columns. Owner and created_at never change.
func (r *TasksRepo) Save(ctx context.Context, t task.Task) (task.Task, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, completed = ?, updated_at = ? WHERE id = ?`,
		t.Title, nullString(t.Description), t.Completed, toMillis(t.UpdatedAt), t.ID,
	)
	if err != nil {
		return task.Task{}, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return task.Task{}, err
	}
	if n == 0 {
		return task.Task{}, task.ErrNotFound
	}

	return r.GetByID(ctx, t.ID)
}

func (r *TasksRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return task.ErrNotFound
	}

	return nil
}
