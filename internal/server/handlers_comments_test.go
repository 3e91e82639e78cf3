package server

import (
	"net/http"
	"testing"

	"lnr/internal/api"
)

func createTestComment(t *testing.T, h http.Handler, taskID, author, content string) api.CommentResponse {
	t.Helper()
	w := doRequest(t, h, http.MethodPost, "/api/comments", api.CommentCreateRequest{TaskID: taskID, Author: author, Content: content})
	if w.Code != http.StatusCreated {
		t.Fatalf("create comment: expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	return decodeResponse[api.CommentResponse](t, w)
}

func TestCommentsLifecycle(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	h := srv.Handler()
	task := createTestTask(t, h, api.TaskCreateRequest{Title: "Discuss"})
	other := createTestTask(t, h, api.TaskCreateRequest{Title: "Elsewhere"})

	first := createTestComment(t, h, task.ID, "Sarah", "first")
	second := createTestComment(t, h, task.ID, "Alex", "second")
	third := createTestComment(t, h, task.ID, "Sarah", "third")
	createTestComment(t, h, other.ID, "Jordan", "unrelated")

	if first.ID == "" || first.TaskID != task.ID || first.Author != "Sarah" || first.CreatedAt.IsZero() {
		t.Fatalf("unexpected comment: %+v", first)
	}

	list := decodeResponse[[]api.CommentResponse](t, doRequest(t, h, http.MethodGet, "/api/comments?task_id="+task.ID, nil))
	if len(list) != 3 || list[0].ID != first.ID || list[1].ID != second.ID || list[2].ID != third.ID {
		t.Fatalf("expected comments in creation order, got %+v", list)
	}

	w := doRequest(t, h, http.MethodDelete, "/api/comments?id="+second.ID, nil)
	if w.Code != http.StatusOK || !decodeResponse[api.SuccessResponse](t, w).Success {
		t.Fatalf("delete comment: %d (%s)", w.Code, w.Body.String())
	}

	list = decodeResponse[[]api.CommentResponse](t, doRequest(t, h, http.MethodGet, "/api/comments?task_id="+task.ID, nil))
	if len(list) != 2 || list[0].ID != first.ID || list[1].ID != third.ID {
		t.Fatalf("expected only the deleted comment removed, got %+v", list)
	}
	otherList := decodeResponse[[]api.CommentResponse](t, doRequest(t, h, http.MethodGet, "/api/comments?task_id="+other.ID, nil))
	if len(otherList) != 1 {
		t.Fatalf("expected other task's comment untouched, got %d", len(otherList))
	}
}

func TestCommentValidation(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	h := srv.Handler()
	task := createTestTask(t, h, api.TaskCreateRequest{Title: "Discuss"})

	t.Run("list requires task_id", func(t *testing.T) {
		w := doRequest(t, h, http.MethodGet, "/api/comments", nil)
		expectError(t, w, http.StatusBadRequest, "task_id is required", ErrCodeMissingRequired)
	})

	t.Run("create requires all fields", func(t *testing.T) {
		bodies := []api.CommentCreateRequest{
			{Author: "a", Content: "c"},
			{TaskID: task.ID, Content: "c"},
			{TaskID: task.ID, Author: "a", Content: "  "},
		}
		for _, body := range bodies {
			w := doRequest(t, h, http.MethodPost, "/api/comments", body)
			expectError(t, w, http.StatusBadRequest, "task_id, author, and content are required", ErrCodeMissingRequired)
		}
	})

	t.Run("create on unknown task", func(t *testing.T) {
		w := doRequest(t, h, http.MethodPost, "/api/comments", api.CommentCreateRequest{TaskID: "missing", Author: "a", Content: "c"})
		expectError(t, w, http.StatusNotFound, "Task not found", ErrCodeTaskNotFound)
	})

	t.Run("delete requires id", func(t *testing.T) {
		w := doRequest(t, h, http.MethodDelete, "/api/comments", nil)
		expectError(t, w, http.StatusBadRequest, "Comment ID is required", ErrCodeMissingRequired)
	})
}

func TestDeleteTaskRemovesComments(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	h := srv.Handler()
	task := createTestTask(t, h, api.TaskCreateRequest{Title: "Doomed"})
	createTestComment(t, h, task.ID, "Sarah", "bye")

	if w := doRequest(t, h, http.MethodDelete, "/api/tasks?id="+task.ID, nil); w.Code != http.StatusOK {
		t.Fatalf("delete task: %d (%s)", w.Code, w.Body.String())
	}
	list := decodeResponse[[]api.CommentResponse](t, doRequest(t, h, http.MethodGet, "/api/comments?task_id="+task.ID, nil))
	if len(list) != 0 {
		t.Fatalf("expected comments to cascade, got %d", len(list))
	}
}
