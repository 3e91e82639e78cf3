package store

import (
	"context"
	"fmt"

	"lnr/internal/models"
)

const commentColumns = "id, task_id, author, content, created_at"

// ListComments returns comments for a task, oldest first.
func (s *Store) ListComments(ctx context.Context, taskID string) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE task_id = ? ORDER BY created_at ASC, rowid ASC",
		taskID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var comment models.Comment
		var createdAt string
		if err := rows.Scan(&comment.ID, &comment.TaskID, &comment.Author, &comment.Content, &createdAt); err != nil {
			return nil, err
		}
		if comment.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

// CreateComment inserts a comment. The referenced task must exist.
func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment == nil {
		return fmt.Errorf("comment is required")
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO comments ("+commentColumns+") VALUES (?, ?, ?, ?, ?)",
		comment.ID,
		comment.TaskID,
		comment.Author,
		comment.Content,
		formatTime(comment.CreatedAt),
	)
	return err
}

// DeleteComment removes a comment. Deleting an unknown id is not an error.
func (s *Store) DeleteComment(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM comments WHERE id = ?", id)
	return err
}
