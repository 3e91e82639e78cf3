// Package board holds client-side task state and applies mutations
// optimistically before the server confirms them.
package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"lnr/internal/api"
	"lnr/internal/models"
)

// TempCommentPrefix marks comments that have not been confirmed by the server.
const TempCommentPrefix = "temp-"

// ErrUnknownTask is returned when a mutation names a task not held locally.
var ErrUnknownTask = errors.New("task not loaded")

// Backend is the subset of api.Client the controller talks to.
type Backend interface {
	ListTasks(ctx context.Context, query url.Values) ([]api.TaskResponse, error)
	CreateTask(ctx context.Context, req api.TaskCreateRequest) (api.TaskResponse, error)
	UpdateTask(ctx context.Context, id string, req api.TaskUpdateRequest) (api.TaskResponse, error)
	DeleteTask(ctx context.Context, id string) error
	ListComments(ctx context.Context, taskID string) ([]api.CommentResponse, error)
	CreateComment(ctx context.Context, req api.CommentCreateRequest) (api.CommentResponse, error)
	DeleteComment(ctx context.Context, id string) error
	ListMembers(ctx context.Context) ([]api.MemberResponse, error)
}

var _ Backend = (*api.Client)(nil)

// Controller is the in-memory view of the board. Local state is never rolled
// back when a request fails; the next Refresh replaces it.
type Controller struct {
	backend Backend
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	tasks    []api.TaskResponse
	members  []models.TeamMember
	viewing  string
	comments []models.Comment
}

// New constructs a Controller. A nil logger discards output.
func New(backend Backend, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{
		backend: backend,
		logger:  logger.With("component", "board"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Refresh replaces tasks and members with the server's current state.
func (c *Controller) Refresh(ctx context.Context) error {
	tasks, err := c.backend.ListTasks(ctx, nil)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	members, err := c.backend.ListMembers(ctx)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}

	c.mu.Lock()
	c.tasks = tasks
	c.members = members
	c.mu.Unlock()
	return nil
}

// Tasks returns a copy of the local task list, newest first.
func (c *Controller) Tasks() []api.TaskResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.tasks)
}

// Members returns a copy of the team roster.
func (c *Controller) Members() []models.TeamMember {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.members)
}

// Comments returns the comments of the task opened with Open.
func (c *Controller) Comments() []models.Comment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.comments)
}

// Find looks up a loaded task by its human-facing id.
func (c *Controller) Find(taskID string) (api.TaskResponse, bool) {
	taskID, err := models.NormalizeTaskID(taskID)
	if err != nil {
		return api.TaskResponse{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, task := range c.tasks {
		if task.TaskID == taskID {
			return task, true
		}
	}
	return api.TaskResponse{}, false
}

// Open makes id the viewed task and loads its comments.
func (c *Controller) Open(ctx context.Context, id string) error {
	comments, err := c.backend.ListComments(ctx, id)
	if err != nil {
		return fmt.Errorf("list comments: %w", err)
	}
	c.mu.Lock()
	c.viewing = id
	c.comments = comments
	c.mu.Unlock()
	return nil
}

// SetStatus moves a task to status.
func (c *Controller) SetStatus(ctx context.Context, id, status string) error {
	parsed, err := models.ParseTaskStatus(status)
	if err != nil {
		return err
	}
	value := string(parsed)
	return c.patch(ctx, id, api.TaskUpdateRequest{Status: &value}, func(task *api.TaskResponse) {
		task.Status = value
	})
}

// SetPriority changes a task's priority.
func (c *Controller) SetPriority(ctx context.Context, id, priority string) error {
	parsed, err := models.ParseTaskPriority(priority)
	if err != nil {
		return err
	}
	value := string(parsed)
	return c.patch(ctx, id, api.TaskUpdateRequest{Priority: &value}, func(task *api.TaskResponse) {
		task.Priority = value
	})
}

// Rename sets a task's title.
func (c *Controller) Rename(ctx context.Context, id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return errors.New("title cannot be empty")
	}
	return c.patch(ctx, id, api.TaskUpdateRequest{Title: &title}, func(task *api.TaskResponse) {
		task.Title = title
	})
}

// Assign sets a task's assignee. An empty memberID unassigns.
func (c *Controller) Assign(ctx context.Context, id, memberID string) error {
	memberID = strings.TrimSpace(memberID)
	req := api.TaskUpdateRequest{AssigneeID: api.SetNull()}
	if memberID != "" {
		req.AssigneeID = api.SetString(memberID)
	}

	c.mu.Lock()
	var assignee *models.TeamMember
	for i := range c.members {
		if c.members[i].ID == memberID {
			member := c.members[i]
			assignee = &member
			break
		}
	}
	c.mu.Unlock()

	return c.patch(ctx, id, req, func(task *api.TaskResponse) {
		if memberID == "" {
			task.AssigneeID = nil
			task.Assignee = nil
			return
		}
		task.AssigneeID = &memberID
		task.Assignee = assignee
	})
}

// CreateTask creates a task and prepends the server row. Nothing is shown
// locally before the server assigns ids.
func (c *Controller) CreateTask(ctx context.Context, req api.TaskCreateRequest) (api.TaskResponse, error) {
	created, err := c.backend.CreateTask(ctx, req)
	if err != nil {
		return api.TaskResponse{}, fmt.Errorf("create task: %w", err)
	}
	c.mu.Lock()
	c.tasks = append([]api.TaskResponse{created}, c.tasks...)
	c.mu.Unlock()
	return created, nil
}

// DeleteTask removes a task locally, then on the server.
func (c *Controller) DeleteTask(ctx context.Context, id string) error {
	c.mu.Lock()
	c.tasks = slices.DeleteFunc(c.tasks, func(task api.TaskResponse) bool { return task.ID == id })
	if c.viewing == id {
		c.viewing = ""
		c.comments = nil
	}
	c.mu.Unlock()

	if err := c.backend.DeleteTask(ctx, id); err != nil {
		c.logger.Warn("delete task failed", "id", id, "error", err)
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// AddComment appends a placeholder comment to the viewed task and swaps it
// for the server row once created.
func (c *Controller) AddComment(ctx context.Context, author, content string) (models.Comment, error) {
	c.mu.Lock()
	taskID := c.viewing
	if taskID == "" {
		c.mu.Unlock()
		return models.Comment{}, errors.New("no task open")
	}
	placeholder := models.Comment{
		ID:        TempCommentPrefix + uuid.NewString(),
		TaskID:    taskID,
		Author:    author,
		Content:   content,
		CreatedAt: c.now(),
	}
	c.comments = append(c.comments, placeholder)
	c.mu.Unlock()

	created, err := c.backend.CreateComment(ctx, api.CommentCreateRequest{TaskID: taskID, Author: author, Content: content})
	if err != nil {
		c.logger.Warn("add comment failed", "task", taskID, "error", err)
		return placeholder, fmt.Errorf("add comment: %w", err)
	}

	c.mu.Lock()
	if i := slices.IndexFunc(c.comments, func(cm models.Comment) bool { return cm.ID == placeholder.ID }); i >= 0 {
		c.comments[i] = created
	}
	c.mu.Unlock()
	return created, nil
}

// DeleteComment removes a comment locally, then on the server.
func (c *Controller) DeleteComment(ctx context.Context, id string) error {
	c.mu.Lock()
	c.comments = slices.DeleteFunc(c.comments, func(cm models.Comment) bool { return cm.ID == id })
	c.mu.Unlock()

	if err := c.backend.DeleteComment(ctx, id); err != nil {
		c.logger.Warn("delete comment failed", "id", id, "error", err)
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// patch applies mutate to the local copy of task id and sends req. The local
// change is kept whether or not the request succeeds.
func (c *Controller) patch(ctx context.Context, id string, req api.TaskUpdateRequest, mutate func(*api.TaskResponse)) error {
	c.mu.Lock()
	i := slices.IndexFunc(c.tasks, func(task api.TaskResponse) bool { return task.ID == id })
	if i < 0 {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownTask, id)
	}
	mutate(&c.tasks[i])
	c.tasks[i].UpdatedAt = c.now()
	c.mu.Unlock()

	if _, err := c.backend.UpdateTask(ctx, id, req); err != nil {
		c.logger.Warn("update task failed", "id", id, "error", err)
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}
