package models

import (
	"fmt"
	"strconv"
	"strings"
)

// TaskIDPrefix precedes the sequence number in human-facing task ids.
const TaskIDPrefix = "TASK-"

// FormatTaskID renders a counter value as a human-facing id such as TASK-12.
func FormatTaskID(n int64) string {
	return TaskIDPrefix + strconv.FormatInt(n, 10)
}

// ParseTaskID returns the sequence number of a human-facing id. The prefix is
// matched case-insensitively so "task-3" resolves to TASK-3.
func ParseTaskID(raw string) (int64, error) {
	value := strings.TrimSpace(raw)
	if len(value) <= len(TaskIDPrefix) || !strings.EqualFold(value[:len(TaskIDPrefix)], TaskIDPrefix) {
		return 0, fmt.Errorf("invalid task id: %q", raw)
	}
	n, err := strconv.ParseInt(value[len(TaskIDPrefix):], 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid task id: %q", raw)
	}
	return n, nil
}

// NormalizeTaskID returns the canonical upper-case form of a human-facing id.
func NormalizeTaskID(raw string) (string, error) {
	n, err := ParseTaskID(raw)
	if err != nil {
		return "", err
	}
	return FormatTaskID(n), nil
}
