package command

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lnr/internal/api"
	"lnr/internal/models"
	"lnr/internal/store"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func addMember(t *testing.T, st store.TaskStore, id, name string, offset time.Duration) models.TeamMember {
	t.Helper()
	m := models.TeamMember{
		ID:        id,
		Name:      name,
		Email:     strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		CreatedAt: time.Now().UTC().Add(offset),
	}
	if err := st.UpsertMember(context.Background(), &m); err != nil {
		t.Fatalf("upsert member: %v", err)
	}
	return m
}

// run interprets text with interp and executes the result the way the
// command route does.
func run(t *testing.T, exec *Executor, interp Interpreter, text string) api.CommandResponse {
	t.Helper()
	action, err := interp.Interpret(context.Background(), text)
	if err != nil {
		t.Fatalf("interpret %q: %v", text, err)
	}
	if action == nil {
		t.Fatalf("interpret %q: not understood", text)
	}
	return exec.Execute(context.Background(), action)
}

// cannedInterpreter maps exact phrases to actions.
func cannedInterpreter(table map[string]Action) Interpreter {
	return InterpreterFunc(func(_ context.Context, text string) (Action, error) {
		return table[text], nil
	})
}

func TestCommandScenario(t *testing.T) {
	st := testStore(t)
	sarah := addMember(t, st, "m-sarah", "Sarah Chen", 0)
	exec := NewExecutor(st, testLogger())

	interp := cannedInterpreter(map[string]Action{
		"create task Fix login bug": CreateTask{Title: "Fix login bug"},
		"mark TASK-1 done":          UpdateStatus{TaskID: "TASK-1", Status: "done"},
		"set TASK-1 priority high":  UpdatePriority{TaskID: "TASK-1", Priority: "high"},
		"assign TASK-1 to Sarah":    AssignTask{TaskID: "TASK-1", AssigneeName: "Sarah"},
		"search fix":                SearchTasks{Query: "fix"},
	})

	resp := run(t, exec, interp, "create task Fix login bug")
	if !resp.Success || resp.Action != ActionCreateTask || resp.Task == nil {
		t.Fatalf("unexpected create response: %+v", resp)
	}
	if resp.Task.TaskID != "TASK-1" || resp.Task.Title != "Fix login bug" || resp.Task.Status != "todo" || resp.Task.Priority != "none" {
		t.Fatalf("unexpected created task: %+v", resp.Task)
	}
	if resp.Message != "Created TASK-1: Fix login bug" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}

	resp = run(t, exec, interp, "mark TASK-1 done")
	if !resp.Success || resp.Action != ActionUpdateStatus || resp.Task.Status != "done" {
		t.Fatalf("unexpected status response: %+v", resp)
	}
	if resp.Message != "TASK-1 → done" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}

	resp = run(t, exec, interp, "set TASK-1 priority high")
	if !resp.Success || resp.Task.Priority != "high" || resp.Message != "TASK-1 priority → high" {
		t.Fatalf("unexpected priority response: %+v", resp)
	}

	resp = run(t, exec, interp, "assign TASK-1 to Sarah")
	if !resp.Success || resp.Task.AssigneeID == nil || *resp.Task.AssigneeID != sarah.ID {
		t.Fatalf("unexpected assign response: %+v", resp)
	}
	if resp.Task.Assignee == nil || resp.Task.Assignee.Name != "Sarah Chen" || resp.Message != "TASK-1 → Sarah Chen" {
		t.Fatalf("unexpected assignee enrichment: %+v", resp)
	}

	resp = run(t, exec, interp, "search fix")
	if !resp.Success || resp.Action != ActionSearchTasks || len(resp.Tasks) != 1 || resp.Tasks[0].TaskID != "TASK-1" {
		t.Fatalf("unexpected search response: %+v", resp)
	}
	if resp.Message != "Found 1 tasks" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
}

func TestCreateTaskIDsIncrease(t *testing.T) {
	st := testStore(t)
	exec := NewExecutor(st, testLogger())
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		resp := exec.Execute(ctx, CreateTask{Title: "task"})
		if !resp.Success {
			t.Fatalf("create %d: %+v", i, resp)
		}
		n, err := models.ParseTaskID(resp.Task.TaskID)
		if err != nil {
			t.Fatalf("parse %s: %v", resp.Task.TaskID, err)
		}
		if n <= last {
			t.Fatalf("expected increasing ids, got %d after %d", n, last)
		}
		last = n
	}
}

func TestCreateTaskWithPriorityAndAssignee(t *testing.T) {
	st := testStore(t)
	alex := addMember(t, st, "m-alex", "Alex Kim", 0)
	exec := NewExecutor(st, testLogger())

	resp := exec.Execute(context.Background(), CreateTask{Title: "Ship it", Priority: "Urgent", AssigneeName: "alex"})
	if !resp.Success {
		t.Fatalf("create: %+v", resp)
	}
	if resp.Task.Priority != "urgent" || resp.Task.AssigneeID == nil || *resp.Task.AssigneeID != alex.ID {
		t.Fatalf("unexpected task: %+v", resp.Task)
	}

	resp = exec.Execute(context.Background(), CreateTask{Title: "Nobody", AssigneeName: "zed"})
	if !resp.Success || resp.Task.AssigneeID != nil {
		t.Fatalf("expected unassigned task when no member matches, got %+v", resp)
	}
}

func TestUpdateUnknownTaskFails(t *testing.T) {
	st := testStore(t)
	exec := NewExecutor(st, testLogger())
	ctx := context.Background()

	tests := []struct {
		action Action
		name   string
	}{
		{action: UpdateStatus{TaskID: "TASK-42", Status: "done"}, name: ActionUpdateStatus},
		{action: UpdatePriority{TaskID: "TASK-42", Priority: "low"}, name: ActionUpdatePriority},
	}
	for _, tc := range tests {
		resp := exec.Execute(ctx, tc.action)
		if resp.Success || resp.Action != tc.name {
			t.Fatalf("expected failure tagged %s, got %+v", tc.name, resp)
		}
		if !strings.Contains(resp.Message, "not found") || resp.Error != ErrTagNotFound {
			t.Fatalf("expected not found failure, got %+v", resp)
		}
	}
}

func TestTaskIDCaseInsensitive(t *testing.T) {
	st := testStore(t)
	exec := NewExecutor(st, testLogger())
	ctx := context.Background()
	exec.Execute(ctx, CreateTask{Title: "one"})

	resp := exec.Execute(ctx, UpdateStatus{TaskID: "task-1", Status: "in_review"})
	if !resp.Success || resp.Task.Status != "in_review" || resp.Message != "TASK-1 → in_review" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestInvalidEnumsFailWithAction(t *testing.T) {
	st := testStore(t)
	exec := NewExecutor(st, testLogger())
	ctx := context.Background()
	exec.Execute(ctx, CreateTask{Title: "one"})

	tests := []Action{
		UpdateStatus{TaskID: "TASK-1", Status: "blocked"},
		UpdatePriority{TaskID: "TASK-1", Priority: "p0"},
		CreateTask{Title: "two", Priority: "critical"},
	}
	for _, action := range tests {
		resp := exec.Execute(ctx, action)
		if resp.Success || resp.Action != action.Name() || resp.Error != ErrTagInvalidArgument {
			t.Fatalf("expected invalid argument failure for %s, got %+v", action.Name(), resp)
		}
	}

	task, err := st.GetTaskByTaskID(ctx, "TASK-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if task.Status != "todo" || task.Priority != "none" {
		t.Fatalf("task should be unchanged, got %+v", task)
	}
}

func TestAssignWithoutMatchDoesNotTouchTask(t *testing.T) {
	st := testStore(t)
	addMember(t, st, "m1", "Sarah Chen", 0)
	exec := NewExecutor(st, testLogger())
	ctx := context.Background()
	created := exec.Execute(ctx, CreateTask{Title: "one"})

	resp := exec.Execute(ctx, AssignTask{TaskID: "TASK-1", AssigneeName: "Bob"})
	if resp.Success || resp.Message != `No team member matching "Bob"` {
		t.Fatalf("unexpected response: %+v", resp)
	}

	task, err := st.GetTaskByTaskID(ctx, "TASK-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !task.UpdatedAt.Equal(created.Task.UpdatedAt) || task.AssigneeID != nil {
		t.Fatalf("task was modified: %+v", task)
	}

	resp = exec.Execute(ctx, AssignTask{TaskID: "TASK-9", AssigneeName: "sarah"})
	if resp.Success || resp.Message != "Task TASK-9 not found" {
		t.Fatalf("expected not found, got %+v", resp)
	}
}

func TestAssignPicksFirstMatchingMember(t *testing.T) {
	st := testStore(t)
	first := addMember(t, st, "m1", "Sarah Chen", 0)
	addMember(t, st, "m2", "Sarah Connor", time.Second)
	exec := NewExecutor(st, testLogger())
	ctx := context.Background()
	exec.Execute(ctx, CreateTask{Title: "one"})

	resp := exec.Execute(ctx, AssignTask{TaskID: "TASK-1", AssigneeName: "SARAH"})
	if !resp.Success || *resp.Task.AssigneeID != first.ID {
		t.Fatalf("expected first inserted member, got %+v", resp)
	}
}

func TestAccentedNamesAndTitlesMatchAnyCase(t *testing.T) {
	st := testStore(t)
	elodie := addMember(t, st, "m-elodie", "Élodie Durand", 0)
	exec := NewExecutor(st, testLogger())
	ctx := context.Background()

	created := exec.Execute(ctx, CreateTask{Title: "Écran de connexion cassé", AssigneeName: "ÉLODIE"})
	if !created.Success || created.Task.AssigneeID == nil || *created.Task.AssigneeID != elodie.ID {
		t.Fatalf("expected create to resolve assignee, got %+v", created)
	}

	exec.Execute(ctx, CreateTask{Title: "Second task"})
	resp := exec.Execute(ctx, AssignTask{TaskID: "TASK-2", AssigneeName: "élodie"})
	if !resp.Success || *resp.Task.AssigneeID != elodie.ID {
		t.Fatalf("expected assign to match accented name, got %+v", resp)
	}

	resp = exec.Execute(ctx, SearchTasks{Query: "écran"})
	if !resp.Success || len(resp.Tasks) != 1 || resp.Tasks[0].TaskID != "TASK-1" {
		t.Fatalf("expected accented search to find TASK-1, got %+v", resp)
	}
}

func TestSearchCapsAndMatches(t *testing.T) {
	st := testStore(t)
	exec := NewExecutor(st, testLogger())
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		exec.Execute(ctx, CreateTask{Title: "Bug in parser"})
	}
	exec.Execute(ctx, CreateTask{Title: "Unrelated"})

	resp := exec.Execute(ctx, SearchTasks{Query: "PARSER"})
	if !resp.Success || len(resp.Tasks) != SearchLimit {
		t.Fatalf("expected %d results, got %d", SearchLimit, len(resp.Tasks))
	}
	for _, task := range resp.Tasks {
		if !strings.Contains(strings.ToLower(task.Title), "parser") {
			t.Fatalf("unexpected result %q", task.Title)
		}
	}

	resp = exec.Execute(ctx, SearchTasks{Query: "nothing-matches"})
	if !resp.Success || resp.Tasks == nil || len(resp.Tasks) != 0 || resp.Message != "Found 0 tasks" {
		t.Fatalf("expected empty success, got %+v", resp)
	}
}

func TestExecuteNilAction(t *testing.T) {
	exec := NewExecutor(testStore(t), testLogger())
	resp := exec.Execute(context.Background(), nil)
	if resp.Success || resp.Action != api.ActionUnknown {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

type failingCounterStore struct {
	store.TaskStore
}

func (failingCounterStore) NextTaskNumber(context.Context) (int64, error) {
	return 0, errors.New("counter unavailable")
}

func TestCreateTaskCounterFailure(t *testing.T) {
	exec := NewExecutor(failingCounterStore{TaskStore: testStore(t)}, testLogger())
	resp := exec.Execute(context.Background(), CreateTask{Title: "x"})
	if resp.Success || resp.Message != "Failed to generate task ID" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestDecodeAction(t *testing.T) {
	tests := []struct {
		name    string
		tool    string
		args    string
		want    Action
		wantErr bool
	}{
		{name: "create", tool: "create_task", args: `{"title":" Fix login bug ","priority":"high"}`, want: CreateTask{Title: "Fix login bug", Priority: "high"}},
		{name: "status", tool: "update_status", args: `{"task_id":"TASK-5","status":"done"}`, want: UpdateStatus{TaskID: "TASK-5", Status: "done"}},
		{name: "priority", tool: "update_priority", args: `{"task_id":"TASK-5","priority":"low"}`, want: UpdatePriority{TaskID: "TASK-5", Priority: "low"}},
		{name: "assign", tool: "assign_task", args: `{"task_id":"TASK-5","assignee_name":"Sarah"}`, want: AssignTask{TaskID: "TASK-5", AssigneeName: "Sarah"}},
		{name: "search", tool: "search_tasks", args: `{"query":"login"}`, want: SearchTasks{Query: "login"}},
		{name: "unknown", tool: "delete_task", args: `{}`, wantErr: true},
		{name: "bad json", tool: "search_tasks", args: `{"query":`, wantErr: true},
		{name: "missing title", tool: "create_task", args: `{}`, wantErr: true},
		{name: "missing status", tool: "update_status", args: `{"task_id":"TASK-1"}`, wantErr: true},
		{name: "blank query", tool: "search_tasks", args: `{"query":"  "}`, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeAction(tc.tool, tc.args)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %#v", got)
				}
				if got != nil {
					t.Fatalf("expected nil action on error, got %#v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %#v, got %#v", tc.want, got)
			}
		})
	}

	if _, err := DecodeAction("nope", "{}"); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}
