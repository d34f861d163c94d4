package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/geocoder89/taskhub/internal/observability"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Options are shared by every repo. All fields are optional.
type Options struct {
	Prom *observability.Prom
	Log  *slog.Logger
	// LogQueries logs every logical operation at debug level (DB_LOGGING).
	LogQueries bool
}

type base struct {
	pool *pgxpool.Pool
	opts Options
}

func (b base) run(ctx context.Context, op string, fn func() error) error {
	start := time.Now()

	err := b.opts.Prom.ObserveDB(op, fn)

	if b.opts.LogQueries && b.opts.Log != nil {
		b.opts.Log.DebugContext(ctx, "db_op", "op", op, "latency_ms", time.Since(start).Milliseconds(), "err", err)
	}

	return err
}

func isPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)
