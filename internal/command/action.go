// Package command turns command bar text into one of a fixed set of actions
// and applies them to the task store.
package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"lnr/internal/api"
)

// Action names as they appear in tool calls and command responses.
const (
	ActionCreateTask     = "create_task"
	ActionUpdateStatus   = "update_status"
	ActionUpdatePriority = "update_priority"
	ActionAssignTask     = "assign_task"
	ActionSearchTasks    = "search_tasks"
)

// ActionNames lists every action in tool-definition order.
var ActionNames = []string{
	ActionCreateTask,
	ActionUpdateStatus,
	ActionUpdatePriority,
	ActionAssignTask,
	ActionSearchTasks,
}

// ErrUnknownAction is returned by DecodeAction for a name outside ActionNames.
var ErrUnknownAction = errors.New("unknown action")

// Action is a decoded command. The set of implementations is closed; each
// one dispatches to its own Handler method.
type Action interface {
	Name() string
	Accept(ctx context.Context, h Handler) api.CommandResponse
}

// Handler has one method per Action variant.
type Handler interface {
	CreateTask(ctx context.Context, a CreateTask) api.CommandResponse
	UpdateStatus(ctx context.Context, a UpdateStatus) api.CommandResponse
	UpdatePriority(ctx context.Context, a UpdatePriority) api.CommandResponse
	AssignTask(ctx context.Context, a AssignTask) api.CommandResponse
	SearchTasks(ctx context.Context, a SearchTasks) api.CommandResponse
}

type CreateTask struct {
	Title        string `json:"title"`
	Priority     string `json:"priority,omitempty"`
	AssigneeName string `json:"assignee_name,omitempty"`
}

type UpdateStatus struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

type UpdatePriority struct {
	TaskID   string `json:"task_id"`
	Priority string `json:"priority"`
}

type AssignTask struct {
	TaskID       string `json:"task_id"`
	AssigneeName string `json:"assignee_name"`
}

type SearchTasks struct {
	Query string `json:"query"`
}

func (CreateTask) Name() string     { return ActionCreateTask }
func (UpdateStatus) Name() string   { return ActionUpdateStatus }
func (UpdatePriority) Name() string { return ActionUpdatePriority }
func (AssignTask) Name() string     { return ActionAssignTask }
func (SearchTasks) Name() string    { return ActionSearchTasks }

func (a CreateTask) Accept(ctx context.Context, h Handler) api.CommandResponse {
	return h.CreateTask(ctx, a)
}

func (a UpdateStatus) Accept(ctx context.Context, h Handler) api.CommandResponse {
	return h.UpdateStatus(ctx, a)
}

func (a UpdatePriority) Accept(ctx context.Context, h Handler) api.CommandResponse {
	return h.UpdatePriority(ctx, a)
}

func (a AssignTask) Accept(ctx context.Context, h Handler) api.CommandResponse {
	return h.AssignTask(ctx, a)
}

func (a SearchTasks) Accept(ctx context.Context, h Handler) api.CommandResponse {
	return h.SearchTasks(ctx, a)
}

// DecodeAction converts a tool call name and its JSON arguments into an
// Action. Required string fields must be present and non-blank; enum values
// are left for the executor to check.
func DecodeAction(name, arguments string) (Action, error) {
	if strings.TrimSpace(arguments) == "" {
		arguments = "{}"
	}
	raw := []byte(arguments)

	switch name {
	case ActionCreateTask:
		var a CreateTask
		if err := decodeArgs(name, raw, &a); err != nil {
			return nil, err
		}
		a.Title = strings.TrimSpace(a.Title)
		a.AssigneeName = strings.TrimSpace(a.AssigneeName)
		return checked(a, require(name, "title", a.Title))
	case ActionUpdateStatus:
		var a UpdateStatus
		if err := decodeArgs(name, raw, &a); err != nil {
			return nil, err
		}
		return checked(a, require(name, "task_id", a.TaskID, "status", a.Status))
	case ActionUpdatePriority:
		var a UpdatePriority
		if err := decodeArgs(name, raw, &a); err != nil {
			return nil, err
		}
		return checked(a, require(name, "task_id", a.TaskID, "priority", a.Priority))
	case ActionAssignTask:
		var a AssignTask
		if err := decodeArgs(name, raw, &a); err != nil {
			return nil, err
		}
		a.AssigneeName = strings.TrimSpace(a.AssigneeName)
		return checked(a, require(name, "task_id", a.TaskID, "assignee_name", a.AssigneeName))
	case ActionSearchTasks:
		var a SearchTasks
		if err := decodeArgs(name, raw, &a); err != nil {
			return nil, err
		}
		a.Query = strings.TrimSpace(a.Query)
		return checked(a, require(name, "query", a.Query))
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

func checked(a Action, err error) (Action, error) {
	if err != nil {
		return nil, err
	}
	return a, nil
}

func decodeArgs(name string, raw []byte, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s arguments: %w", name, err)
	}
	return nil
}

// require takes alternating field names and values.
func require(action string, fields ...string) error {
	for i := 0; i+1 < len(fields); i += 2 {
		if strings.TrimSpace(fields[i+1]) == "" {
			return fmt.Errorf("%s: %s is required", action, fields[i])
		}
	}
	return nil
}
