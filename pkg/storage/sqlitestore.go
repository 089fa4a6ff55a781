package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"taskbook/pkg/task"
)

// SQLiteStore keeps the collection in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and ensures the tasks
// table exists.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One connection: an in-memory database is private to its connection.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	s := &SQLiteStore{db: db}
	if err := s.EnsureTable(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// EnsureTable creates the tasks table if it doesn't exist.
func (s *SQLiteStore) EnsureTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS tasks (
			position        INTEGER NOT NULL,
			id              TEXT PRIMARY KEY,
			title           TEXT NOT NULL,
			description     TEXT NOT NULL,
			due_date        TEXT,
			completion_date TEXT,
			location        TEXT NOT NULL DEFAULT '',
			status          TEXT NOT NULL DEFAULT 'New'
		)`)
	if err != nil {
		return fmt.Errorf("create tasks table: %w", err)
	}
	return nil
}

// Load returns all tasks ordered by position.
func (s *SQLiteStore) Load(ctx context.Context) ([]task.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, due_date, completion_date, location, status
		FROM tasks ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		var t task.Task
		var due, completion sql.NullString
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &due, &completion, &t.Location, &t.Status); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		if t.DueDate, err = nullDate(due); err != nil {
			return nil, fmt.Errorf("task %s due date: %w", t.ID, err)
		}
		if t.CompletionDate, err = nullDate(completion); err != nil {
			return nil, fmt.Errorf("task %s completion date: %w", t.ID, err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration: %w", err)
	}
	return tasks, nil
}

// Save replaces every row with tasks in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, tasks []task.Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tasks (position, id, title, description, due_date, completion_date, location, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range tasks {
		if _, err := stmt.ExecContext(ctx, i, t.ID, t.Title, t.Description,
			dateString(t.DueDate), dateString(t.CompletionDate), t.Location, string(t.Status)); err != nil {
			return fmt.Errorf("insert task %s: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func dateString(d *task.Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func nullDate(s sql.NullString) (*task.Date, error) {
	if !s.Valid {
		return nil, nil
	}
	return task.ParseOptionalDate(s.String)
}
