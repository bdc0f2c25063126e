package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"taskman/internal/models"
)

const taskColumns = "id, owner_id, description, completed, created_at, updated_at"

// TaskStore persists tasks. Every lookup and mutation is scoped by owner so
// one user's requests can never touch another user's rows.
type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

// ListQuery describes the optional filter/sort/pagination of a task list.
type ListQuery struct {
	Completed *bool

	// SortColumn must come from SortColumnForField; empty means id order.
	SortColumn string
	SortDesc   bool

	// Limit/Skip are applied only when positive.
	Limit int
	Skip  int
}

var sortColumns = map[string]string{
	"description": "description",
	"completed":   "completed",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}

// SortColumnForField maps a client-facing sortBy field name to its column.
func SortColumnForField(field string) (string, bool) {
	column, ok := sortColumns[field]
	return column, ok
}

func (s *TaskStore) Create(ctx context.Context, task *models.Task) error {
	query := `INSERT INTO tasks (owner_id, description, completed) VALUES ($1, $2, $3) RETURNING id, created_at, updated_at`

	err := s.db.QueryRowContext(ctx, query, task.OwnerID, task.Description, task.Completed).
		Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	return nil
}

// GetByIDAndOwner fetches a task by (id, owner). ErrNotFound covers both an
// absent id and a task owned by somebody else.
func (s *TaskStore) GetByIDAndOwner(ctx context.Context, id, ownerID int) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND owner_id = $2`

	task := &models.Task{}
	err := s.db.QueryRowContext(ctx, query, id, ownerID).
		Scan(&task.ID, &task.OwnerID, &task.Description, &task.Completed, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}

	return task, nil
}

// ListByOwner returns the owner's tasks matching the query. The slice is
// non-nil even when empty so it serializes as [].
func (s *TaskStore) ListByOwner(ctx context.Context, ownerID int, q ListQuery) ([]models.Task, error) {
	query, args := buildListQuery(ownerID, q)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		var task models.Task
		err := rows.Scan(&task.ID, &task.OwnerID, &task.Description, &task.Completed, &task.CreatedAt, &task.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, nil
}

// Update persists description/completed on an already-fetched task.
func (s *TaskStore) Update(ctx context.Context, task *models.Task) error {
	query := `UPDATE tasks SET description = $1, completed = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $3 AND owner_id = $4 RETURNING updated_at`

	err := s.db.QueryRowContext(ctx, query, task.Description, task.Completed, task.ID, task.OwnerID).
		Scan(&task.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update task: %w", err)
	}

	return nil
}

// Delete removes a task scoped by (id, owner).
func (s *TaskStore) Delete(ctx context.Context, id, ownerID int) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return requireRowAffected(result)
}

// buildListQuery assembles the list statement. The sort column is always a
// value from sortColumns, never client input, so interpolating it is safe.
func buildListQuery(ownerID int, q ListQuery) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE owner_id = $1`)
	args := []interface{}{ownerID}

	if q.Completed != nil {
		args = append(args, *q.Completed)
		sb.WriteString(` AND completed = $` + strconv.Itoa(len(args)))
	}

	if q.SortColumn != "" {
		direction := "ASC"
		if q.SortDesc {
			direction = "DESC"
		}
		sb.WriteString(` ORDER BY ` + q.SortColumn + ` ` + direction + `, id ASC`)
	} else {
		sb.WriteString(` ORDER BY id ASC`)
	}

	if q.Limit > 0 {
		args = append(args, q.Limit)
		sb.WriteString(` LIMIT $` + strconv.Itoa(len(args)))
	}
	if q.Skip > 0 {
		args = append(args, q.Skip)
		sb.WriteString(` OFFSET $` + strconv.Itoa(len(args)))
	}

	return sb.String(), args
}
