package api

import "lnr/internal/models"

// TaskCreateRequest defines the payload for creating a task.
type TaskCreateRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	AssigneeID  *string `json:"assignee_id,omitempty"`
}

// TaskUpdateRequest defines the payload for a partial task update. ID is
// only read by PATCH /api/tasks; the keyed route takes the id from the path.
// Description and AssigneeID distinguish an absent key from an explicit null.
type TaskUpdateRequest struct {
	ID          string     `json:"id,omitempty"`
	Title       *string    `json:"title,omitempty"`
	Description NullString `json:"description,omitzero"`
	Status      *string    `json:"status,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	AssigneeID  NullString `json:"assignee_id,omitzero"`
}

// Empty reports whether the request carries no updatable field.
func (r TaskUpdateRequest) Empty() bool {
	return r.Title == nil && r.Status == nil && r.Priority == nil && !r.Description.Set && !r.AssigneeID.Set
}

// TaskResponse is a task joined with its assignee record.
type TaskResponse struct {
	models.Task
	Assignee *models.TeamMember `json:"assignee"`
}

// CommentCreateRequest defines the payload for creating a comment. TaskID is
// the task's opaque id.
type CommentCreateRequest struct {
	TaskID  string `json:"task_id"`
	Author  string `json:"author"`
	Content string `json:"content"`
}

// InfoResponse is the response from GET /api/info.
type InfoResponse struct {
	Version       string         `json:"version"`
	Driver        string         `json:"driver"`
	SchemaVersion int            `json:"schema_version"`
	TaskCounts    map[string]int `json:"task_counts"`
	TotalTasks    int            `json:"total_tasks"`
	MemberCount   int            `json:"member_count"`
	Interpreter   string         `json:"interpreter"`
}

// CommentResponse is a comment as returned by the API.
type CommentResponse = models.Comment

// MemberResponse is a team member as returned by the API.
type MemberResponse = models.TeamMember
