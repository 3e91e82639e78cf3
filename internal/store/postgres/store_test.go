package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"lnr/internal/models"
	"lnr/internal/store"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping postgres test")
	}
	st, err := Open(context.Background(), dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestOpenRequiresDSN(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, err := Open(context.Background(), ""); err == nil {
		t.Fatal("expected error without DSN")
	}
}

func TestLoadMigrationsOrdered(t *testing.T) {
	migs, err := loadMigrations()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(migs) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migs))
	}
	if migs[0].version != 1 || migs[1].version != 2 {
		t.Fatalf("unexpected order: %+v", migs)
	}
}

func TestTaskRoundTrip(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	n, err := st.NextTaskNumber(ctx)
	if err != nil {
		t.Fatalf("NextTaskNumber: %v", err)
	}
	task := &models.Task{
		ID:        uuid.NewString(),
		TaskID:    models.FormatTaskID(n),
		Title:     "Postgres task",
		Status:    "todo",
		Priority:  "none",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := st.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	t.Cleanup(func() { _ = st.DeleteTask(context.Background(), task.ID) })

	status := "done"
	got, err := st.UpdateTaskByTaskID(ctx, task.TaskID, store.TaskUpdate{Status: &status})
	if err != nil {
		t.Fatalf("UpdateTaskByTaskID: %v", err)
	}
	if got.Status != "done" || got.Title != "Postgres task" {
		t.Fatalf("unexpected task: %+v", got)
	}

	if _, err := st.GetTask(ctx, uuid.NewString()); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
