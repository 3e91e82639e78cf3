package api

import "lnr/internal/models"

// ActionUnknown tags command responses produced before an action was decoded.
const ActionUnknown = "unknown"

// CommandRequest is the payload for POST /api/parse-command.
type CommandRequest struct {
	Command string `json:"command"`
}

// CommandResponse is the uniform envelope returned by the command bar.
// Tasks is non-nil only for searches, and then always serialized.
type CommandResponse struct {
	Success bool          `json:"success"`
	Action  string        `json:"action"`
	Task    *TaskResponse `json:"task,omitempty"`
	Tasks   []models.Task `json:"tasks,omitzero"`
	Message string        `json:"message"`
	Error   string        `json:"error,omitempty"`
}
