package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/taskhub/internal/domain/task"
	"github.com/geocoder89/taskhub/internal/domain/user"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TasksRepo struct {
	base
}

func NewTasksRepo(pool *pgxpool.Pool, opts Options) *TasksRepo {
	return &TasksRepo{base{pool: pool, opts: opts}}
}

const taskColumns = `id, title, description, completed, user_id, created_at, updated_at`

func scanTask(row pgx.Row) (task.Task, error) {
	var t task.Task

	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Completed,
		&t.UserID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)

	return t, err
}

func (r *TasksRepo) GetByID(ctx context.Context, id int64) (task.Task, error) {
	var t task.Task

	err := r.run(ctx, "tasks.get_by_id", func() error {
		var err error
		t, err = scanTask(r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, err
	}

	return t, nil
}

func (r *TasksRepo) ListAll(ctx context.Context) ([]task.Task, error) {
	return r.list(ctx, "tasks.list_all",
		`SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC, id DESC`)
}

func (r *TasksRepo) ListByOwner(ctx context.Context, ownerID int64) ([]task.Task, error) {
	return r.list(ctx, "tasks.list_by_owner",
		`SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, ownerID)
}

func (r *TasksRepo) list(ctx context.Context, op, query string, args ...any) ([]task.Task, error) {
	output := make([]task.Task, 0)

	err := r.run(ctx, op, func() error {
		rows, err := r.pool.Query(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			t, err := scanTask(rows)

			if err != nil {
				return err
			}

			output = append(output, t)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

func (r *TasksRepo) Create(ctx context.Context, t task.Task) (task.Task, error) {
	err := r.run(ctx, "tasks.create", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO tasks (title, description, completed, user_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			t.Title, t.Description, t.Completed, t.UserID, t.CreatedAt, t.UpdatedAt,
		).Scan(&t.ID)
	})

	if err != nil {
		if isPgCode(err, codeForeignKeyViolation) {
			return task.Task{}, fmt.Errorf("create task: owner %d: %w", t.UserID, user.ErrNotFound)
		}
		return task.Task{}, err
	}

	return t, nil
}

// Save overwrites the mutable columns. Owner and created_at never change.
func (r *TasksRepo) Save(ctx context.Context, t task.Task) (task.Task, error) {
	var saved task.Task

	err := r.run(ctx, "tasks.save", func() error {
		var err error
		saved, err = scanTask(r.pool.QueryRow(ctx,
			`UPDATE tasks
				SET title = $2,
					description = $3,
					completed = $4,
					updated_at = $5
			WHERE id = $1
			RETURNING `+taskColumns,
			t.ID, t.Title, t.Description, t.Completed, t.UpdatedAt,
		))
		return err
	})

	if err != nil {
		// if there are no rows matching the id
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, err
	}

	return saved, nil
}

func (r *TasksRepo) Delete(ctx context.Context, id int64) error {
	return r.run(ctx, "tasks.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)

		if err != nil {
			return err
		}

		// if no rows were deleted as a result return a not found error
		if tag.RowsAffected() == 0 {
			return task.ErrNotFound
		}

		return nil
	})
}
