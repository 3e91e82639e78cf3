package models

import "time"

// Task represents a single unit of trackable work.
type Task struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	AssigneeID  *string   `json:"assignee_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TeamMember is a person tasks can be assigned to.
type TeamMember struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	AvatarURL *string   `json:"avatar_url"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"-"`
}

// Comment is an append-only note on a task. TaskID references Task.ID.
type Comment struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
