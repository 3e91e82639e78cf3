package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	httpTimeoutEnvKey  = "LNR_HTTP_TIMEOUT"
)

// Client is a simple HTTP client for the lnr API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a new API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: httpTimeoutFromEnv()},
	}
}

// BaseURL returns the server address the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping checks whether the API server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

func (c *Client) GetInfo(ctx context.Context) (InfoResponse, error) {
	var resp InfoResponse
	err := c.do(ctx, http.MethodGet, "/api/info", nil, nil, &resp)
	return resp, err
}

// ListTasks lists tasks. Supported query keys are q, status and assignee_id.
func (c *Client) ListTasks(ctx context.Context, query url.Values) ([]TaskResponse, error) {
	var resp []TaskResponse
	err := c.do(ctx, http.MethodGet, "/api/tasks", query, nil, &resp)
	return resp, err
}

func (c *Client) CreateTask(ctx context.Context, req TaskCreateRequest) (TaskResponse, error) {
	var resp TaskResponse
	err := c.do(ctx, http.MethodPost, "/api/tasks", nil, req, &resp)
	return resp, err
}

// UpdateTask patches the task with opaque id.
func (c *Client) UpdateTask(ctx context.Context, id string, req TaskUpdateRequest) (TaskResponse, error) {
	var resp TaskResponse
	req.ID = id
	err := c.do(ctx, http.MethodPatch, "/api/tasks", nil, req, &resp)
	return resp, err
}

// DeleteTask deletes the task with opaque id.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks", url.Values{"id": {id}}, nil, nil)
}

// GetTask fetches a task by its human-facing id.
func (c *Client) GetTask(ctx context.Context, taskID string) (TaskResponse, error) {
	var resp TaskResponse
	err := c.do(ctx, http.MethodGet, "/api/tasks/"+url.PathEscape(taskID), nil, nil, &resp)
	return resp, err
}

// UpdateTaskByTaskID patches a task by its human-facing id.
func (c *Client) UpdateTaskByTaskID(ctx context.Context, taskID string, req TaskUpdateRequest) (TaskResponse, error) {
	var resp TaskResponse
	req.ID = ""
	err := c.do(ctx, http.MethodPatch, "/api/tasks/"+url.PathEscape(taskID), nil, req, &resp)
	return resp, err
}

// ListComments returns comments for the task with opaque id, oldest first.
func (c *Client) ListComments(ctx context.Context, taskID string) ([]CommentResponse, error) {
	var resp []CommentResponse
	err := c.do(ctx, http.MethodGet, "/api/comments", url.Values{"task_id": {taskID}}, nil, &resp)
	return resp, err
}

func (c *Client) CreateComment(ctx context.Context, req CommentCreateRequest) (CommentResponse, error) {
	var resp CommentResponse
	err := c.do(ctx, http.MethodPost, "/api/comments", nil, req, &resp)
	return resp, err
}

func (c *Client) DeleteComment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/comments", url.Values{"id": {id}}, nil, nil)
}

func (c *Client) ListMembers(ctx context.Context) ([]MemberResponse, error) {
	var resp []MemberResponse
	err := c.do(ctx, http.MethodGet, "/api/team-members", nil, nil, &resp)
	return resp, err
}

// ParseCommand submits free text to the command bar. A 400 carries a
// CommandResponse with Success=false and is returned without error; other
// failures return an *APIError alongside any decoded envelope.
func (c *Client) ParseCommand(ctx context.Context, command string) (CommandResponse, error) {
	var resp CommandResponse
	httpResp, err := c.send(ctx, http.MethodPost, "/api/parse-command", nil, CommandRequest{Command: command})
	if err != nil {
		return resp, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return resp, err
	}
	decodeErr := json.Unmarshal(body, &resp)
	switch {
	case httpResp.StatusCode < 300 && decodeErr == nil:
		return resp, nil
	case httpResp.StatusCode == http.StatusBadRequest && decodeErr == nil && resp.Message != "":
		return resp, nil
	case decodeErr == nil && resp.Message != "":
		return resp, &APIError{Status: httpResp.StatusCode, Message: resp.Message}
	}
	return resp, errorFromBody(httpResp, body)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return c.http.Do(req)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	resp, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	return errorFromBody(resp, body)
}

func errorFromBody(resp *http.Response, body []byte) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		apiErr.Code = errResp.Code
		apiErr.ErrorCode = errResp.ErrorCode
		apiErr.Message = errResp.Error
		return apiErr
	}
	apiErr.Message = "api error: " + resp.Status
	return apiErr
}

func httpTimeoutFromEnv() time.Duration {
	value := strings.TrimSpace(os.Getenv(httpTimeoutEnvKey))
	if value == "" {
		return defaultHTTPTimeout
	}

	if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
		return duration
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	return defaultHTTPTimeout
}
