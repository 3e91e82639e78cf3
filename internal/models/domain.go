package models

import (
	"fmt"
	"strings"
)

// TaskStatus defines the board columns a task moves through.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusInReview   TaskStatus = "in_review"
	StatusDone       TaskStatus = "done"
)

// TaskPriority defines the urgency buckets.
type TaskPriority string

const (
	PriorityUrgent TaskPriority = "urgent"
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
	PriorityNone   TaskPriority = "none"
)

const (
	DefaultStatus   = StatusTodo
	DefaultPriority = PriorityNone
)

// StatusOrder is the left-to-right board column order.
var StatusOrder = []TaskStatus{StatusTodo, StatusInProgress, StatusInReview, StatusDone}

// PriorityOrder lists priorities from most to least urgent.
var PriorityOrder = []TaskPriority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow, PriorityNone}

func IsValidTaskStatus(status TaskStatus) bool {
	for _, s := range StatusOrder {
		if s == status {
			return true
		}
	}
	return false
}

func IsValidTaskPriority(priority TaskPriority) bool {
	for _, p := range PriorityOrder {
		if p == priority {
			return true
		}
	}
	return false
}

func ParseTaskStatus(raw string) (TaskStatus, error) {
	value := TaskStatus(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return "", fmt.Errorf("status is required")
	}
	if !IsValidTaskStatus(value) {
		return "", fmt.Errorf("invalid status: %s", value)
	}
	return value, nil
}

func ParseTaskPriority(raw string) (TaskPriority, error) {
	value := TaskPriority(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return "", fmt.Errorf("priority is required")
	}
	if !IsValidTaskPriority(value) {
		return "", fmt.Errorf("invalid priority: %s", value)
	}
	return value, nil
}

func StatusStrings() []string {
	out := make([]string, 0, len(StatusOrder))
	for _, s := range StatusOrder {
		out = append(out, string(s))
	}
	return out
}

func PriorityStrings() []string {
	out := make([]string, 0, len(PriorityOrder))
	for _, p := range PriorityOrder {
		out = append(out, string(p))
	}
	return out
}
