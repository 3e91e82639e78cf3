package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"lnr/internal/api"
	"lnr/internal/metrics"
	"lnr/internal/models"
	"lnr/internal/store"
)

// TaskService centralizes task and comment validation and defaults.
type TaskService struct {
	store store.TaskStore
	now   func() time.Time
	newID func() string
}

// NewTaskService constructs a TaskService.
func NewTaskService(store store.TaskStore) *TaskService {
	return &TaskService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// List returns tasks matching filter, each joined with its assignee.
func (s *TaskService) List(ctx context.Context, filter store.ListFilter) ([]api.TaskResponse, error) {
	tasks, err := s.store.ListTasks(ctx, filter)
	if err != nil {
		return nil, storeFailure(err)
	}
	members, err := s.store.GetMembersByIDs(ctx, assigneeIDs(tasks))
	if err != nil {
		return nil, storeFailure(err)
	}
	return toTaskResponses(tasks, members), nil
}

// Get returns the task with the human-facing id taskID.
func (s *TaskService) Get(ctx context.Context, taskID string) (api.TaskResponse, error) {
	taskID, err := normalizeTaskID(taskID)
	if err != nil {
		return api.TaskResponse{}, err
	}
	task, err := s.store.GetTaskByTaskID(ctx, taskID)
	if err != nil {
		return api.TaskResponse{}, storeError(err, msgTaskNotFound, ErrCodeTaskNotFound)
	}
	return s.enrich(ctx, task)
}

// Create creates a task from a request. The human-facing id comes from the
// store's counter.
func (s *TaskService) Create(ctx context.Context, req api.TaskCreateRequest) (api.TaskResponse, error) {
	var resp api.TaskResponse

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return resp, badRequestCode(errors.New(msgTitleRequired), ErrCodeMissingRequired)
	}

	status := string(models.DefaultStatus)
	if value := trimmedOrNil(req.Status); value != nil {
		normalized, err := normalizeStatus(*value)
		if err != nil {
			return resp, err
		}
		status = normalized
	}

	priority := string(models.DefaultPriority)
	if value := trimmedOrNil(req.Priority); value != nil {
		normalized, err := normalizePriority(*value)
		if err != nil {
			return resp, err
		}
		priority = normalized
	}

	assigneeID := trimmedOrNil(req.AssigneeID)
	if assigneeID != nil {
		if err := s.requireMember(ctx, *assigneeID); err != nil {
			return resp, err
		}
	}

	n, err := s.store.NextTaskNumber(ctx)
	if err != nil {
		return resp, makeAPIError(http.StatusInternalServerError, "internal", ErrCodeCounterFailure, fmt.Errorf("next task number: %w", err))
	}

	now := s.now()
	task := &models.Task{
		ID:          s.newID(),
		TaskID:      models.FormatTaskID(n),
		Title:       title,
		Description: trimmedOrNil(req.Description),
		Status:      status,
		Priority:    priority,
		AssigneeID:  assigneeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateTask(ctx, task); err != nil {
		return resp, storeFailure(err)
	}
	metrics.RecordTaskCreated(ctx, "rest")

	return s.enrich(ctx, task)
}

// Update applies a partial update to the task with opaque id.
func (s *TaskService) Update(ctx context.Context, id string, req api.TaskUpdateRequest) (api.TaskResponse, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return api.TaskResponse{}, badRequestCode(errors.New(msgTaskIDRequired), ErrCodeMissingRequired)
	}
	if req.Empty() {
		task, err := s.store.GetTask(ctx, id)
		if err != nil {
			return api.TaskResponse{}, storeError(err, msgTaskNotFound, ErrCodeTaskNotFound)
		}
		return s.enrich(ctx, task)
	}

	update, err := s.buildUpdate(ctx, req)
	if err != nil {
		return api.TaskResponse{}, err
	}
	task, err := s.store.UpdateTask(ctx, id, update)
	if err != nil {
		return api.TaskResponse{}, storeError(err, msgTaskNotFound, ErrCodeTaskNotFound)
	}
	return s.enrich(ctx, task)
}

// UpdateByTaskID applies a partial update to the task with a human-facing id.
func (s *TaskService) UpdateByTaskID(ctx context.Context, taskID string, req api.TaskUpdateRequest) (api.TaskResponse, error) {
	taskID, err := normalizeTaskID(taskID)
	if err != nil {
		return api.TaskResponse{}, err
	}
	if req.Empty() {
		return s.Get(ctx, taskID)
	}

	update, err := s.buildUpdate(ctx, req)
	if err != nil {
		return api.TaskResponse{}, err
	}
	task, err := s.store.UpdateTaskByTaskID(ctx, taskID, update)
	if err != nil {
		return api.TaskResponse{}, storeError(err, msgTaskNotFound, ErrCodeTaskNotFound)
	}
	return s.enrich(ctx, task)
}

// Delete removes the task with opaque id together with its comments.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return badRequestCode(errors.New(msgTaskIDRequired), ErrCodeMissingRequired)
	}
	if err := s.store.DeleteTask(ctx, id); err != nil {
		return storeFailure(err)
	}
	return nil
}

// ListComments returns the comments of a task in creation order.
func (s *TaskService) ListComments(ctx context.Context, taskID string) ([]api.CommentResponse, error) {
	comments, err := s.store.ListComments(ctx, taskID)
	if err != nil {
		return nil, storeFailure(err)
	}
	return comments, nil
}

// CreateComment appends a comment to an existing task.
func (s *TaskService) CreateComment(ctx context.Context, req api.CommentCreateRequest) (api.CommentResponse, error) {
	taskID := strings.TrimSpace(req.TaskID)
	author := strings.TrimSpace(req.Author)
	content := strings.TrimSpace(req.Content)
	if taskID == "" || author == "" || content == "" {
		return api.CommentResponse{}, badRequestCode(errors.New(msgCommentFields), ErrCodeMissingRequired)
	}

	if _, err := s.store.GetTask(ctx, taskID); err != nil {
		return api.CommentResponse{}, storeError(err, msgTaskNotFound, ErrCodeTaskNotFound)
	}

	comment := models.Comment{
		ID:        s.newID(),
		TaskID:    taskID,
		Author:    author,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateComment(ctx, &comment); err != nil {
		return api.CommentResponse{}, storeFailure(err)
	}
	return comment, nil
}

// DeleteComment removes exactly the comment with id.
func (s *TaskService) DeleteComment(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return badRequestCode(errors.New(msgCommentIDMissing), ErrCodeMissingRequired)
	}
	if err := s.store.DeleteComment(ctx, id); err != nil {
		return storeFailure(err)
	}
	return nil
}

// ListMembers returns the team roster.
func (s *TaskService) ListMembers(ctx context.Context) ([]api.MemberResponse, error) {
	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return nil, storeFailure(err)
	}
	return members, nil
}

func (s *TaskService) buildUpdate(ctx context.Context, req api.TaskUpdateRequest) (store.TaskUpdate, error) {
	update, err := buildTaskUpdateFromRequest(req, s.now())
	if err != nil {
		return store.TaskUpdate{}, err
	}
	if update.AssigneeID != nil && *update.AssigneeID != "" {
		if err := s.requireMember(ctx, *update.AssigneeID); err != nil {
			return store.TaskUpdate{}, err
		}
	}
	return update, nil
}

func (s *TaskService) requireMember(ctx context.Context, id string) error {
	members, err := s.store.GetMembersByIDs(ctx, []string{id})
	if err != nil {
		return storeFailure(err)
	}
	if _, ok := members[id]; !ok {
		return badRequestCode(errors.New(msgMemberNotFound), ErrCodeMemberNotFound)
	}
	return nil
}

func (s *TaskService) enrich(ctx context.Context, task *models.Task) (api.TaskResponse, error) {
	members, err := s.store.GetMembersByIDs(ctx, assigneeIDs([]models.Task{*task}))
	if err != nil {
		return api.TaskResponse{}, storeFailure(err)
	}
	return toTaskResponse(*task, members), nil
}
