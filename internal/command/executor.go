package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"lnr/internal/api"
	"lnr/internal/metrics"
	"lnr/internal/models"
	"lnr/internal/store"
)

// SearchLimit caps search_tasks results.
const SearchLimit = 10

// Error tags carried in failed command responses.
const (
	ErrTagInvalidArgument = "invalid_argument"
	ErrTagNotFound        = "not_found"
	ErrTagStore           = "store_error"
	ErrTagUnknown         = "unknown_action"
)

// Executor applies actions to a TaskStore. Each action is one logical store
// operation sequence; nothing is retried.
type Executor struct {
	store  store.TaskStore
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

var _ Handler = (*Executor)(nil)

func NewExecutor(st store.TaskStore, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		store:  st,
		logger: logger.With("component", "command"),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

// Execute runs action and returns the response envelope. It never panics on
// a nil action.
func (e *Executor) Execute(ctx context.Context, action Action) api.CommandResponse {
	start := time.Now()
	var resp api.CommandResponse
	if action == nil {
		resp = failure(api.ActionUnknown, ErrTagUnknown, "Unknown command")
	} else {
		resp = action.Accept(ctx, e)
	}

	metrics.RecordCommand(ctx, resp.Action, resp.Success)
	level := slog.LevelInfo
	if !resp.Success {
		level = slog.LevelWarn
	}
	e.logger.Log(ctx, level, "command executed",
		"action", resp.Action,
		"success", resp.Success,
		"message", resp.Message,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return resp
}

func (e *Executor) CreateTask(ctx context.Context, a CreateTask) api.CommandResponse {
	priority := models.DefaultPriority
	if strings.TrimSpace(a.Priority) != "" {
		parsed, err := models.ParseTaskPriority(a.Priority)
		if err != nil {
			return failure(ActionCreateTask, ErrTagInvalidArgument, capitalize(err.Error()))
		}
		priority = parsed
	}

	n, err := e.store.NextTaskNumber(ctx)
	if err != nil {
		e.logger.Error("task counter increment failed", "error", err)
		return failure(ActionCreateTask, ErrTagStore, "Failed to generate task ID")
	}
	taskID := models.FormatTaskID(n)

	var assignee *models.TeamMember
	if a.AssigneeName != "" {
		member, err := e.firstMember(ctx, a.AssigneeName)
		if err != nil {
			e.logger.Warn("assignee lookup failed", "assignee_name", a.AssigneeName, "error", err)
		}
		assignee = member
	}

	now := e.now()
	task := &models.Task{
		ID:        e.newID(),
		TaskID:    taskID,
		Title:     a.Title,
		Status:    string(models.DefaultStatus),
		Priority:  string(priority),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if assignee != nil {
		id := assignee.ID
		task.AssigneeID = &id
	}

	if err := e.store.CreateTask(ctx, task); err != nil {
		e.logger.Error("create task failed", "task_id", taskID, "error", err)
		return failure(ActionCreateTask, ErrTagStore, "Failed to create task")
	}
	metrics.RecordTaskCreated(ctx, "command")

	return api.CommandResponse{
		Success: true,
		Action:  ActionCreateTask,
		Task:    &api.TaskResponse{Task: *task, Assignee: assignee},
		Message: fmt.Sprintf("Created %s: %s", taskID, a.Title),
	}
}

func (e *Executor) UpdateStatus(ctx context.Context, a UpdateStatus) api.CommandResponse {
	status, err := models.ParseTaskStatus(a.Status)
	if err != nil {
		return failure(ActionUpdateStatus, ErrTagInvalidArgument, capitalize(err.Error()))
	}
	value := string(status)
	taskID := displayTaskID(a.TaskID)

	task, resp, ok := e.updateByTaskID(ctx, ActionUpdateStatus, taskID, store.TaskUpdate{Status: &value})
	if !ok {
		return resp
	}
	return e.success(ctx, ActionUpdateStatus, task, nil, fmt.Sprintf("%s → %s", taskID, value))
}

func (e *Executor) UpdatePriority(ctx context.Context, a UpdatePriority) api.CommandResponse {
	priority, err := models.ParseTaskPriority(a.Priority)
	if err != nil {
		return failure(ActionUpdatePriority, ErrTagInvalidArgument, capitalize(err.Error()))
	}
	value := string(priority)
	taskID := displayTaskID(a.TaskID)

	task, resp, ok := e.updateByTaskID(ctx, ActionUpdatePriority, taskID, store.TaskUpdate{Priority: &value})
	if !ok {
		return resp
	}
	return e.success(ctx, ActionUpdatePriority, task, nil, fmt.Sprintf("%s priority → %s", taskID, value))
}

func (e *Executor) AssignTask(ctx context.Context, a AssignTask) api.CommandResponse {
	member, err := e.firstMember(ctx, a.AssigneeName)
	if err != nil {
		e.logger.Error("assignee lookup failed", "assignee_name", a.AssigneeName, "error", err)
		return failure(ActionAssignTask, ErrTagStore, "Failed to look up team members")
	}
	if member == nil {
		return failure(ActionAssignTask, ErrTagNotFound, fmt.Sprintf("No team member matching %q", a.AssigneeName))
	}

	taskID := displayTaskID(a.TaskID)
	memberID := member.ID
	task, resp, ok := e.updateByTaskID(ctx, ActionAssignTask, taskID, store.TaskUpdate{AssigneeID: &memberID})
	if !ok {
		return resp
	}
	return e.success(ctx, ActionAssignTask, task, member, fmt.Sprintf("%s → %s", taskID, member.Name))
}

func (e *Executor) SearchTasks(ctx context.Context, a SearchTasks) api.CommandResponse {
	tasks, err := e.store.ListTasks(ctx, store.ListFilter{Search: a.Query, Limit: SearchLimit})
	if err != nil {
		e.logger.Error("search failed", "query", a.Query, "error", err)
		return failure(ActionSearchTasks, ErrTagStore, "Search failed")
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return api.CommandResponse{
		Success: true,
		Action:  ActionSearchTasks,
		Tasks:   tasks,
		Message: fmt.Sprintf("Found %d tasks", len(tasks)),
	}
}

func (e *Executor) updateByTaskID(ctx context.Context, action, taskID string, update store.TaskUpdate) (*models.Task, api.CommandResponse, bool) {
	update.UpdatedAt = e.now()
	task, err := e.store.UpdateTaskByTaskID(ctx, taskID, update)
	if errors.Is(err, store.ErrNotFound) {
		return nil, failure(action, ErrTagNotFound, fmt.Sprintf("Task %s not found", taskID)), false
	}
	if err != nil {
		e.logger.Error("update task failed", "action", action, "task_id", taskID, "error", err)
		return nil, failure(action, ErrTagStore, fmt.Sprintf("Failed to update %s", taskID)), false
	}
	return task, api.CommandResponse{}, true
}

func (e *Executor) success(ctx context.Context, action string, task *models.Task, assignee *models.TeamMember, message string) api.CommandResponse {
	if assignee == nil && task.AssigneeID != nil {
		members, err := e.store.GetMembersByIDs(ctx, []string{*task.AssigneeID})
		if err != nil {
			e.logger.Warn("assignee enrichment failed", "task_id", task.TaskID, "error", err)
		} else if m, ok := members[*task.AssigneeID]; ok {
			assignee = &m
		}
	}
	return api.CommandResponse{
		Success: true,
		Action:  action,
		Task:    &api.TaskResponse{Task: *task, Assignee: assignee},
		Message: message,
	}
}

// firstMember returns the earliest member whose name contains name, or nil.
func (e *Executor) firstMember(ctx context.Context, name string) (*models.TeamMember, error) {
	members, err := e.store.FindMembersByName(ctx, name, 1)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}
	return &members[0], nil
}

func failure(action, tag, message string) api.CommandResponse {
	return api.CommandResponse{Success: false, Action: action, Message: message, Error: tag}
}

// displayTaskID upper-cases a well-formed task id ("task-3" -> "TASK-3") and
// otherwise returns the trimmed input so lookups simply miss.
func displayTaskID(raw string) string {
	if normalized, err := models.NormalizeTaskID(raw); err == nil {
		return normalized
	}
	return strings.TrimSpace(raw)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
