package store

import (
	"context"
	"errors"
	"time"

	"lnr/internal/models"
)

// ErrNotFound is returned when a keyed lookup or update matches no row.
var ErrNotFound = errors.New("not found")

// TaskStore abstracts the relational backends behind the REST and command layers.
type TaskStore interface {
	NextTaskNumber(ctx context.Context) (int64, error)
	CreateTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, id string) (*models.Task, error)
	GetTaskByTaskID(ctx context.Context, taskID string) (*models.Task, error)
	UpdateTask(ctx context.Context, id string, update TaskUpdate) (*models.Task, error)
	UpdateTaskByTaskID(ctx context.Context, taskID string, update TaskUpdate) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filter ListFilter) ([]models.Task, error)

	ListMembers(ctx context.Context) ([]models.TeamMember, error)
	GetMembersByIDs(ctx context.Context, ids []string) (map[string]models.TeamMember, error)
	FindMembersByName(ctx context.Context, name string, limit int) ([]models.TeamMember, error)
	UpsertMember(ctx context.Context, member *models.TeamMember) error

	ListComments(ctx context.Context, taskID string) ([]models.Comment, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
	DeleteComment(ctx context.Context, id string) error

	StoreInfo(ctx context.Context) (*StoreInfo, error)
	Close() error
}

// ListFilter narrows task listings. Zero values mean no constraint.
type ListFilter struct {
	Search     string
	Statuses   []string
	AssigneeID string
	Limit      int
}

// TaskUpdate describes fields to update. A non-nil empty Description or
// AssigneeID clears the column.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	AssigneeID  *string
	UpdatedAt   time.Time
}

// StoreInfo summarizes database state for diagnostics.
type StoreInfo struct {
	SchemaVersion int            `json:"schema_version"`
	TaskCounts    map[string]int `json:"task_counts"`
	TotalTasks    int            `json:"total_tasks"`
	MemberCount   int            `json:"member_count"`
}

var _ TaskStore = (*Store)(nil)

// Timestamp returns UpdatedAt, or the current time when it is unset.
func (u TaskUpdate) Timestamp() time.Time {
	if u.UpdatedAt.IsZero() {
		return time.Now().UTC()
	}
	return u.UpdatedAt
}
