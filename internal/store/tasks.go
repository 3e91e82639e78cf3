package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"lnr/internal/models"
)

const taskColumns = "id, task_id, title, description, status, priority, assignee_id, created_at, updated_at"

// NextTaskNumber atomically increments the task counter and returns the new value.
// The increment is a single statement so concurrent writers, including other
// processes sharing the database file, never observe the same value.
func (s *Store) NextTaskNumber(ctx context.Context) (int64, error) {
	var next int64
	err := s.db.QueryRowContext(ctx, "UPDATE task_counter SET value = value + 1 WHERE id = 1 RETURNING value").Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("increment task counter: %w", err)
	}
	return next, nil
}

// CreateTask inserts a task row.
func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	if task == nil {
		return fmt.Errorf("task is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		task.ID,
		task.TaskID,
		task.Title,
		nullIfEmptyPtr(task.Description),
		task.Status,
		task.Priority,
		nullIfEmptyPtr(task.AssigneeID),
		formatTime(task.CreatedAt),
		formatTime(task.UpdatedAt),
	)
	return err
}

// GetTask returns a task by its opaque id.
func (s *Store) GetTask(ctx context.Context, id string) (*models.Task, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	return scanTaskRow(row)
}

// GetTaskByTaskID returns a task by its human-facing id.
func (s *Store) GetTaskByTaskID(ctx context.Context, taskID string) (*models.Task, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks WHERE task_id = ?", taskID)
	return scanTaskRow(row)
}

// UpdateTask applies update to the task with the given opaque id.
func (s *Store) UpdateTask(ctx context.Context, id string, update TaskUpdate) (*models.Task, error) {
	return s.updateTaskWhere(ctx, "id", id, update)
}

// UpdateTaskByTaskID applies update to the task with the given human-facing id.
func (s *Store) UpdateTaskByTaskID(ctx context.Context, taskID string, update TaskUpdate) (*models.Task, error) {
	return s.updateTaskWhere(ctx, "task_id", taskID, update)
}

func (s *Store) updateTaskWhere(ctx context.Context, column, key string, update TaskUpdate) (*models.Task, error) {
	if key == "" {
		return nil, fmt.Errorf("%s is required", column)
	}

	set, args := buildTaskUpdate(update)
	args = append(args, key)
	query := fmt.Sprintf("UPDATE tasks SET %s WHERE %s = ? RETURNING %s", strings.Join(set, ", "), column, taskColumns)
	return scanTaskRow(s.db.QueryRowContext(ctx, query, args...))
}

// DeleteTask removes a task and, through the foreign key, its comments.
// Deleting an unknown id is not an error.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	return err
}

// ListTasks returns tasks matching filter, newest first.
func (s *Store) ListTasks(ctx context.Context, filter ListFilter) ([]models.Task, error) {
	query, args := buildListQuery(filter)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func buildListQuery(filter ListFilter) (string, []any) {
	query := "SELECT " + taskColumns + " FROM tasks"
	where := []string{}
	args := []any{}

	if filter.Search != "" {
		pattern := LikePattern(filter.Search)
		where = append(where, `(lnr_fold(title) LIKE lnr_fold(?) ESCAPE '\' OR lnr_fold(COALESCE(description, '')) LIKE lnr_fold(?) ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if len(filter.Statuses) > 0 {
		where = append(where, fmt.Sprintf("status IN (%s)", placeholders(len(filter.Statuses))))
		for _, status := range filter.Statuses {
			args = append(args, status)
		}
	}
	if filter.AssigneeID != "" {
		where = append(where, "assignee_id = ?")
		args = append(args, filter.AssigneeID)
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	return query, args
}

func buildTaskUpdate(update TaskUpdate) ([]string, []any) {
	set := []string{}
	args := []any{}
	add := func(column string, value any) {
		set = append(set, column+" = ?")
		args = append(args, value)
	}

	if update.Title != nil {
		add("title", *update.Title)
	}
	if update.Description != nil {
		add("description", nullIfEmpty(*update.Description))
	}
	if update.Status != nil {
		add("status", *update.Status)
	}
	if update.Priority != nil {
		add("priority", *update.Priority)
	}
	if update.AssigneeID != nil {
		add("assignee_id", nullIfEmpty(*update.AssigneeID))
	}

	add("updated_at", formatTime(update.Timestamp()))

	return set, args
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTaskRow(row rowScanner) (*models.Task, error) {
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return task, err
}

// scanTask reads a row selected with the task column list.
func scanTask(scanner rowScanner) (*models.Task, error) {
	var task models.Task
	var description, assigneeID sql.NullString
	var createdAt, updatedAt string

	if err := scanner.Scan(
		&task.ID,
		&task.TaskID,
		&task.Title,
		&description,
		&task.Status,
		&task.Priority,
		&assigneeID,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	task.Description = stringPtr(description)
	task.AssigneeID = stringPtr(assigneeID)

	var err error
	if task.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if task.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &task, nil
}
