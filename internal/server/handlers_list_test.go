package server

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"lnr/internal/api"
)

func TestHandleListTasks(t *testing.T) {
	srv, st := newTestServer(t, nil)
	h := srv.Handler()
	sarah := seedTestMember(t, st, "Sarah Chen", time.Now().UTC())

	createTestTask(t, h, api.TaskCreateRequest{Title: "Fix login bug", AssigneeID: strPtr(sarah.ID)})
	createTestTask(t, h, api.TaskCreateRequest{Title: "Write docs", Description: strPtr("explain the LOGIN flow"), Status: strPtr("in_progress")})
	createTestTask(t, h, api.TaskCreateRequest{Title: "100% coverage", Status: strPtr("done")})

	tests := []struct {
		name  string
		query url.Values
		want  []string
	}{
		{name: "all newest first", query: nil, want: []string{"TASK-3", "TASK-2", "TASK-1"}},
		{name: "search title or description", query: url.Values{"q": {"login"}}, want: []string{"TASK-2", "TASK-1"}},
		{name: "search escapes wildcards", query: url.Values{"q": {"100%"}}, want: []string{"TASK-3"}},
		{name: "single status", query: url.Values{"status": {"done"}}, want: []string{"TASK-3"}},
		{name: "status list", query: url.Values{"status": {"todo,in_progress"}}, want: []string{"TASK-2", "TASK-1"}},
		{name: "assignee", query: url.Values{"assignee_id": {sarah.ID}}, want: []string{"TASK-1"}},
		{name: "limit", query: url.Values{"limit": {"1"}}, want: []string{"TASK-3"}},
		{name: "no match", query: url.Values{"q": {"nothing here"}}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/api/tasks"
			if len(tt.query) > 0 {
				target += "?" + tt.query.Encode()
			}
			w := doRequest(t, h, http.MethodGet, target, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
			}
			got := decodeResponse[[]api.TaskResponse](t, w)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d tasks, got %d", len(tt.want), len(got))
			}
			for i, taskID := range tt.want {
				if got[i].TaskID != taskID {
					t.Fatalf("position %d: expected %s, got %s", i, taskID, got[i].TaskID)
				}
			}
		})
	}
}

func TestHandleListTasksJoinsAssignee(t *testing.T) {
	srv, st := newTestServer(t, nil)
	h := srv.Handler()
	alex := seedTestMember(t, st, "Alex Kim", time.Now().UTC())
	createTestTask(t, h, api.TaskCreateRequest{Title: "assigned", AssigneeID: strPtr(alex.ID)})
	createTestTask(t, h, api.TaskCreateRequest{Title: "unassigned"})

	got := decodeResponse[[]api.TaskResponse](t, doRequest(t, h, http.MethodGet, "/api/tasks", nil))
	if len(got) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(got))
	}
	if got[0].Assignee != nil {
		t.Fatalf("expected no assignee on unassigned task, got %+v", got[0].Assignee)
	}
	if got[1].Assignee == nil || got[1].Assignee.Name != "Alex Kim" || got[1].Assignee.Email != alex.Email {
		t.Fatalf("expected joined assignee, got %+v", got[1].Assignee)
	}
}

func TestHandleListTasksEmptyIsArray(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	w := doRequest(t, srv.Handler(), http.MethodGet, "/api/tasks", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := w.Body.String(); body != "[]\n" {
		t.Fatalf("expected empty JSON array, got %q", body)
	}
}

func TestHandleListTasksInvalidQueryParams(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	h := srv.Handler()

	tests := []struct {
		name        string
		query       string
		wantMessage string
		wantCode    int
	}{
		{name: "invalid limit", query: "limit=abc", wantMessage: "invalid limit", wantCode: ErrCodeInvalidQuery},
		{name: "negative limit", query: "limit=-1", wantMessage: "limit must be >= 0", wantCode: ErrCodeInvalidQuery},
		{name: "invalid status", query: "status=todo,blocked", wantMessage: "invalid status: blocked", wantCode: ErrCodeInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, h, http.MethodGet, "/api/tasks?"+tt.query, nil)
			expectError(t, w, http.StatusBadRequest, tt.wantMessage, tt.wantCode)
		})
	}
}

func TestHandleListMembers(t *testing.T) {
	srv, st := newTestServer(t, nil)
	h := srv.Handler()
	now := time.Now().UTC()
	seedTestMember(t, st, "Taylor Swift", now)
	seedTestMember(t, st, "Alex Kim", now.Add(time.Millisecond))

	w := doRequest(t, h, http.MethodGet, "/api/team-members", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	members := decodeResponse[[]api.MemberResponse](t, w)
	if len(members) != 2 || members[0].Name != "Alex Kim" || members[1].Name != "Taylor Swift" {
		t.Fatalf("expected members ordered by name, got %+v", members)
	}
}
