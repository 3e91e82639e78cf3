package server

import (
	"errors"
	"strings"
	"time"

	"lnr/internal/api"
	"lnr/internal/models"
	"lnr/internal/store"
)

// buildTaskUpdateFromRequest maps an API update request to a store patch model.
func buildTaskUpdateFromRequest(req api.TaskUpdateRequest, updatedAt time.Time) (store.TaskUpdate, error) {
	update := store.TaskUpdate{UpdatedAt: updatedAt}

	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		if trimmed == "" {
			return store.TaskUpdate{}, badRequestCode(errors.New(msgTitleEmpty), ErrCodeMissingRequired)
		}
		update.Title = &trimmed
	}
	if req.Status != nil {
		status, err := normalizeStatus(*req.Status)
		if err != nil {
			return store.TaskUpdate{}, err
		}
		update.Status = &status
	}
	if req.Priority != nil {
		priority, err := normalizePriority(*req.Priority)
		if err != nil {
			return store.TaskUpdate{}, err
		}
		update.Priority = &priority
	}
	if req.Description.Set {
		update.Description = clearableValue(req.Description)
	}
	if req.AssigneeID.Set {
		update.AssigneeID = clearableValue(req.AssigneeID)
	}

	return update, nil
}

// clearableValue returns the pointer form expected by store.TaskUpdate, where
// an empty string clears the column.
func clearableValue(value api.NullString) *string {
	out := ""
	if value.Valid {
		out = strings.TrimSpace(value.Value)
	}
	return &out
}

func assigneeIDs(tasks []models.Task) []string {
	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		if task.AssigneeID != nil && *task.AssigneeID != "" {
			ids = append(ids, *task.AssigneeID)
		}
	}
	return ids
}

func toTaskResponse(task models.Task, members map[string]models.TeamMember) api.TaskResponse {
	resp := api.TaskResponse{Task: task}
	if task.AssigneeID != nil {
		if member, ok := members[*task.AssigneeID]; ok {
			resp.Assignee = &member
		}
	}
	return resp
}

func toTaskResponses(tasks []models.Task, members map[string]models.TeamMember) []api.TaskResponse {
	out := make([]api.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, toTaskResponse(task, members))
	}
	return out
}
