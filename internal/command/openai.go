package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"lnr/internal/metrics"
	"lnr/internal/models"
)

const (
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 30 * time.Second
)

// ErrNoAPIKey is returned by NewOpenAIInterpreter without an API key.
var ErrNoAPIKey = errors.New("openai api key is required")

// MemberLister supplies the roster named in the system prompt.
type MemberLister interface {
	ListMembers(ctx context.Context) ([]models.TeamMember, error)
}

// OpenAIConfig configures the hosted model interpreter.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// OpenAIInterpreter interprets commands with an OpenAI-compatible chat
// completions endpoint using tool calls.
type OpenAIInterpreter struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	members MemberLister
	logger  *slog.Logger
}

var _ Interpreter = (*OpenAIInterpreter)(nil)

func NewOpenAIInterpreter(cfg OpenAIConfig, members MemberLister, logger *slog.Logger) (*OpenAIInterpreter, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNoAPIKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); base != "" {
		clientCfg.BaseURL = base
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIInterpreter{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   model,
		timeout: timeout,
		members: members,
		logger:  logger.With("component", "interpreter"),
	}, nil
}

// Model returns the configured model name.
func (i *OpenAIInterpreter) Model() string {
	return i.model
}

func (i *OpenAIInterpreter) Interpret(ctx context.Context, text string) (Action, error) {
	start := time.Now()
	action, err := i.interpret(ctx, text)

	outcome := metrics.OutcomeSuccess
	switch {
	case err != nil:
		outcome = metrics.OutcomeError
	case action == nil:
		outcome = metrics.OutcomeNotUnderstood
	}
	metrics.RecordInterpret(ctx, outcome, time.Since(start))
	return action, err
}

func (i *OpenAIInterpreter) interpret(ctx context.Context, text string) (Action, error) {
	names, err := i.memberNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("load team roster: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	resp, err := i.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: i.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt(names)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Tools:      Tools(),
		ToolChoice: "auto",
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		i.logger.Debug("model returned no choices")
		return nil, nil
	}

	calls := resp.Choices[0].Message.ToolCalls
	if len(calls) == 0 {
		i.logger.Debug("model made no tool call", "content", resp.Choices[0].Message.Content)
		return nil, nil
	}
	call := calls[0]
	if len(calls) > 1 {
		i.logger.Debug("ignoring extra tool calls", "count", len(calls)-1)
	}
	if call.Type != "" && call.Type != openai.ToolTypeFunction {
		return nil, nil
	}

	action, err := DecodeAction(call.Function.Name, call.Function.Arguments)
	if err != nil {
		i.logger.Debug("discarding tool call", "name", call.Function.Name, "error", err)
		return nil, nil
	}
	return action, nil
}

func (i *OpenAIInterpreter) memberNames(ctx context.Context) ([]string, error) {
	if i.members == nil {
		return nil, nil
	}
	members, err := i.members.ListMembers(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, m.Name)
	}
	return names, nil
}
