package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"lnr/internal/models"
	"lnr/internal/store"
)

const (
	taskColumns    = "id, task_id, title, description, status, priority, assignee_id, created_at, updated_at"
	memberColumns  = "id, name, email, avatar_url, created_at"
	commentColumns = "id, task_id, author, content, created_at"
)

func (s *Store) NextTaskNumber(ctx context.Context) (int64, error) {
	var next int64
	err := s.Pool.QueryRow(ctx, `UPDATE task_counter SET value = value + 1 WHERE id = 1 RETURNING value`).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("increment task counter: %w", err)
	}
	return next, nil
}

func (s *Store) CreateTask(ctx context.Context, task *models.Task) error {
	if task == nil {
		return errors.New("task is required")
	}
	_, err := s.Pool.Exec(ctx, `INSERT INTO tasks (`+taskColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		task.ID, task.TaskID, task.Title, emptyToNil(task.Description), task.Status, task.Priority,
		emptyToNil(task.AssigneeID), task.CreatedAt, task.UpdatedAt)
	return err
}

func (s *Store) GetTask(ctx context.Context, id string) (*models.Task, error) {
	return scanTaskRow(s.Pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
}

func (s *Store) GetTaskByTaskID(ctx context.Context, taskID string) (*models.Task, error) {
	return scanTaskRow(s.Pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE task_id = $1`, taskID))
}

func (s *Store) UpdateTask(ctx context.Context, id string, update store.TaskUpdate) (*models.Task, error) {
	return s.updateTaskWhere(ctx, "id", id, update)
}

func (s *Store) UpdateTaskByTaskID(ctx context.Context, taskID string, update store.TaskUpdate) (*models.Task, error) {
	return s.updateTaskWhere(ctx, "task_id", taskID, update)
}

func (s *Store) updateTaskWhere(ctx context.Context, column, key string, update store.TaskUpdate) (*models.Task, error) {
	if key == "" {
		return nil, fmt.Errorf("%s is required", column)
	}
	set := []string{}
	args := []any{}
	add := func(col string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if update.Title != nil {
		add("title", *update.Title)
	}
	if update.Description != nil {
		add("description", emptyToNil(update.Description))
	}
	if update.Status != nil {
		add("status", *update.Status)
	}
	if update.Priority != nil {
		add("priority", *update.Priority)
	}
	if update.AssigneeID != nil {
		add("assignee_id", emptyToNil(update.AssigneeID))
	}
	add("updated_at", update.Timestamp())
	args = append(args, key)

	query := fmt.Sprintf("UPDATE tasks SET %s WHERE %s = $%d RETURNING %s", strings.Join(set, ", "), column, len(args), taskColumns)
	return scanTaskRow(s.Pool.QueryRow(ctx, query, args...))
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	_, err := s.Pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

func (s *Store) ListTasks(ctx context.Context, filter store.ListFilter) ([]models.Task, error) {
	where := []string{}
	args := []any{}
	if filter.Search != "" {
		args = append(args, store.LikePattern(filter.Search))
		where = append(where, fmt.Sprintf(`(title ILIKE $%[1]d ESCAPE '\' OR COALESCE(description, '') ILIKE $%[1]d ESCAPE '\')`, len(args)))
	}
	if len(filter.Statuses) > 0 {
		args = append(args, filter.Statuses)
		where = append(where, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if filter.AssigneeID != "" {
		args = append(args, filter.AssigneeID)
		where = append(where, fmt.Sprintf("assignee_id = $%d", len(args)))
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, seq DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.Pool.Query(ctx, query, args...)
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

func (s *Store) ListMembers(ctx context.Context) ([]models.TeamMember, error) {
	rows, err := s.Pool.Query(ctx, `SELECT `+memberColumns+` FROM team_members ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	return collectMembers(rows)
}

func (s *Store) GetMembersByIDs(ctx context.Context, ids []string) (map[string]models.TeamMember, error) {
	result := map[string]models.TeamMember{}
	if len(ids) == 0 {
		return result, nil
	}
	rows, err := s.Pool.Query(ctx, `SELECT `+memberColumns+` FROM team_members WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	members, err := collectMembers(rows)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		result[m.ID] = m
	}
	return result, nil
}

func (s *Store) FindMembersByName(ctx context.Context, name string, limit int) ([]models.TeamMember, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return []models.TeamMember{}, nil
	}
	query := `SELECT ` + memberColumns + ` FROM team_members WHERE name ILIKE $1 ESCAPE '\' ORDER BY created_at ASC, seq ASC`
	args := []any{store.LikePattern(name)}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}
	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectMembers(rows)
}

func (s *Store) UpsertMember(ctx context.Context, member *models.TeamMember) error {
	if member == nil {
		return errors.New("member is required")
	}
	if strings.TrimSpace(member.Email) == "" {
		return errors.New("member email is required")
	}
	return s.Pool.QueryRow(ctx, `
		INSERT INTO team_members (id, name, email, avatar_url, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, avatar_url = EXCLUDED.avatar_url
		RETURNING id`,
		member.ID, member.Name, member.Email, emptyToNil(member.AvatarURL), member.CreatedAt,
	).Scan(&member.ID)
}

func (s *Store) ListComments(ctx context.Context, taskID string) ([]models.Comment, error) {
	rows, err := s.Pool.Query(ctx, `SELECT `+commentColumns+` FROM comments WHERE task_id = $1 ORDER BY created_at ASC, seq ASC`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	comments := []models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.Author, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.CreatedAt = c.CreatedAt.UTC()
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment == nil {
		return errors.New("comment is required")
	}
	_, err := s.Pool.Exec(ctx, `INSERT INTO comments (`+commentColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		comment.ID, comment.TaskID, comment.Author, comment.Content, comment.CreatedAt)
	return err
}

func (s *Store) DeleteComment(ctx context.Context, id string) error {
	_, err := s.Pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	return err
}

func (s *Store) StoreInfo(ctx context.Context) (*store.StoreInfo, error) {
	info := &store.StoreInfo{TaskCounts: map[string]int{}}
	version, err := s.schemaVersion(ctx)
	if err != nil {
		return nil, err
	}
	info.SchemaVersion = version

	rows, err := s.Pool.Query(ctx, `SELECT status, COUNT(*) FROM tasks GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		info.TaskCounts[status] = count
		info.TotalTasks += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM team_members`).Scan(&info.MemberCount); err != nil {
		return nil, err
	}
	return info, nil
}

func scanTaskRow(row pgx.Row) (*models.Task, error) {
	task, err := scanTask(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return task, err
}

func scanTask(row pgx.Row) (*models.Task, error) {
	var t models.Task
	if err := row.Scan(&t.ID, &t.TaskID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.AssigneeID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}

func collectMembers(rows pgx.Rows) ([]models.TeamMember, error) {
	defer rows.Close()
	members := []models.TeamMember{}
	for rows.Next() {
		var m models.TeamMember
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.AvatarURL, &m.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func emptyToNil(value *string) any {
	if value == nil || *value == "" {
		return nil
	}
	return *value
}
