package server

import (
	"errors"
	"strings"

	"lnr/internal/models"
)

const (
	msgTitleRequired    = "Title is required"
	msgTaskIDRequired   = "Task ID is required"
	msgTaskNotFound     = "Task not found"
	msgCommentFields    = "task_id, author, and content are required"
	msgCommentTaskID    = "task_id is required"
	msgCommentIDMissing = "Comment ID is required"
	msgMemberNotFound   = "Team member not found"
	msgTitleEmpty       = "title cannot be empty"
)

func normalizeStatus(value string) (string, error) {
	status, err := models.ParseTaskStatus(value)
	if err != nil {
		return "", badRequestCode(err, ErrCodeInvalidStatus)
	}
	return string(status), nil
}

func normalizePriority(value string) (string, error) {
	priority, err := models.ParseTaskPriority(value)
	if err != nil {
		return "", badRequestCode(err, ErrCodeInvalidPriority)
	}
	return string(priority), nil
}

// normalizeTaskID canonicalizes a human-facing id from a path. Malformed ids
// cannot match a row, so they are reported as not found.
func normalizeTaskID(value string) (string, error) {
	taskID, err := models.NormalizeTaskID(value)
	if err != nil {
		return "", notFoundCode(errors.New(msgTaskNotFound), ErrCodeTaskNotFound)
	}
	return taskID, nil
}

func normalizeStatuses(values []string) ([]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		status, err := normalizeStatus(value)
		if err != nil {
			return nil, err
		}
		out = append(out, status)
	}
	return out, nil
}

func trimmedOrNil(ptr *string) *string {
	if ptr == nil {
		return nil
	}
	value := strings.TrimSpace(*ptr)
	if value == "" {
		return nil
	}
	return &value
}
