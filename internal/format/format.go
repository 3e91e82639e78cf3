// Package format renders API payloads for terminal output.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"lnr/internal/api"
	"lnr/internal/models"
)

// Formatter abstracts output formatting.
type Formatter interface {
	Write(w io.Writer, payload any) error
}

// JSONFormatter writes one JSON document per payload.
type JSONFormatter struct {
	Indent bool
}

// Write writes JSON payload to a writer.
func (f JSONFormatter) Write(w io.Writer, payload any) error {
	enc := json.NewEncoder(w)
	if f.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(payload)
}

var statusGlyphs = map[string]string{
	string(models.StatusTodo):       "○",
	string(models.StatusInProgress): "◐",
	string(models.StatusInReview):   "◑",
	string(models.StatusDone):       "●",
}

// TaskLine renders a task as a single list row.
func TaskLine(task api.TaskResponse) string {
	glyph, ok := statusGlyphs[task.Status]
	if !ok {
		glyph = "?"
	}
	line := fmt.Sprintf("%s %-8s [%s] %s", glyph, task.TaskID, task.Priority, task.Title)
	if task.Assignee != nil {
		line += " @" + task.Assignee.Name
	}
	return line
}

// TaskDetail renders every populated field of a task, one per line.
func TaskDetail(task api.TaskResponse) string {
	lines := []string{
		"task_id: " + task.TaskID,
		"id: " + task.ID,
		"title: " + task.Title,
		"status: " + task.Status,
		"priority: " + task.Priority,
	}
	if task.Assignee != nil {
		lines = append(lines, fmt.Sprintf("assignee: %s <%s>", task.Assignee.Name, task.Assignee.Email))
	}
	if task.Description != nil && *task.Description != "" {
		lines = append(lines, "description: "+*task.Description)
	}
	lines = append(lines,
		"created_at: "+Time(task.CreatedAt),
		"updated_at: "+Time(task.UpdatedAt),
	)
	return strings.Join(lines, "\n")
}

// CommentLine renders a comment with its author and timestamp.
func CommentLine(comment models.Comment) string {
	return fmt.Sprintf("%s  %s (%s): %s", comment.ID, comment.Author, Time(comment.CreatedAt), comment.Content)
}

// MemberLine renders a roster entry.
func MemberLine(member models.TeamMember) string {
	return fmt.Sprintf("%s  %s <%s>", member.ID, member.Name, member.Email)
}

// CommandResult renders a command bar response. Search results are listed
// under the message.
func CommandResult(resp api.CommandResponse) string {
	lines := []string{resp.Message}
	if resp.Task != nil {
		lines = append(lines, TaskLine(*resp.Task))
	}
	for _, task := range resp.Tasks {
		lines = append(lines, TaskLine(api.TaskResponse{Task: task}))
	}
	return strings.Join(lines, "\n")
}

// Time renders t in UTC RFC 3339.
func Time(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
