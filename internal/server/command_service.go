package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"lnr/internal/api"
	"lnr/internal/command"
)

const (
	msgCommandRequired = "Command is required"
	msgNotUnderstood   = "Could not understand command"
	msgInternal        = "Internal server error"
)

// CommandService runs free text through the interpreter and executor.
type CommandService struct {
	interpreter command.Interpreter
	executor    *command.Executor
	logger      *slog.Logger
}

// NewCommandService constructs a CommandService. A nil interpreter makes
// every command fail with a 500.
func NewCommandService(interpreter command.Interpreter, executor *command.Executor, logger *slog.Logger) *CommandService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandService{interpreter: interpreter, executor: executor, logger: logger}
}

// Run interprets and executes text, returning the response envelope and the
// HTTP status it is served with.
func (c *CommandService) Run(ctx context.Context, text string) (resp api.CommandResponse, status int) {
	defer func() {
		if rec := recover(); rec != nil {
			c.logger.Error("command panic", "panic", rec, "stack", string(debug.Stack()))
			resp, status = unknownCommand(msgInternal), http.StatusInternalServerError
		}
	}()

	text = strings.TrimSpace(text)
	if text == "" {
		return unknownCommand(msgCommandRequired), http.StatusBadRequest
	}
	if c.interpreter == nil {
		c.logger.Error("command interpreter is not configured")
		return unknownCommand(msgInternal), http.StatusInternalServerError
	}

	action, err := c.interpreter.Interpret(ctx, text)
	if err != nil {
		c.logger.Error("interpret command", "error", fmt.Errorf("interpret: %w", err))
		return unknownCommand(msgInternal), http.StatusInternalServerError
	}
	if action == nil {
		c.logger.Debug("command not understood", "command", text)
		return unknownCommand(msgNotUnderstood), http.StatusBadRequest
	}

	resp = c.executor.Execute(ctx, action)
	if !resp.Success {
		return resp, http.StatusBadRequest
	}
	return resp, http.StatusOK
}

func unknownCommand(message string) api.CommandResponse {
	return api.CommandResponse{Success: false, Action: api.ActionUnknown, Message: message}
}
