package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taskbook/pkg/task"
)

// PgStore is a PostgreSQL-backed task persister.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore creates a PgStore.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// EnsureTable creates the tasks table if it doesn't exist.
func (s *PgStore) EnsureTable(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tasks (
			position        INTEGER NOT NULL,
			id              TEXT PRIMARY KEY,
			title           TEXT NOT NULL,
			description     TEXT NOT NULL,
			due_date        DATE,
			completion_date DATE,
			location        TEXT NOT NULL DEFAULT '',
			status          TEXT NOT NULL DEFAULT 'New'
		)`)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_tasks_position ON tasks(position)`)
	return err
}

// Load returns all tasks ordered by position.
func (s *PgStore) Load(ctx context.Context) ([]task.Task, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, description, due_date, completion_date, location, status
		FROM tasks ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	defer rows.Close()
	return scanTaskRows(rows)
}

var taskColumns = []string{"position", "id", "title", "description", "due_date", "completion_date", "location", "status"}

// Save replaces every row with tasks in one transaction, bulk-loading them
// with COPY.
func (s *PgStore) Save(ctx context.Context, tasks []task.Task) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	rows := make([][]any, len(tasks))
	for i, t := range tasks {
		rows[i] = []any{int32(i), t.ID, t.Title, t.Description, dateValue(t.DueDate), dateValue(t.CompletionDate), t.Location, string(t.Status)}
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"tasks"}, taskColumns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("copy tasks: %w", err)
	}
	return tx.Commit(ctx)
}

func dateValue(d *task.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time()
	return &t
}

func scanTaskRows(rows pgx.Rows) ([]task.Task, error) {
	tasks := []task.Task{}
	for rows.Next() {
		var t task.Task
		var status string
		var due, completion *time.Time
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &due, &completion, &t.Location, &status); err != nil {
			return nil, err
		}
		t.Status = task.Status(status)
		if due != nil {
			d := task.DateOf(due.UTC())
			t.DueDate = &d
		}
		if completion != nil {
			d := task.DateOf(completion.UTC())
			t.CompletionDate = &d
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}
	return tasks, nil
}
