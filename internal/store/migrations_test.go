package store

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func testRawDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenRaw(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunMigrationsFreshDB(t *testing.T) {
	db := testRawDB(t)

	if err := runMigrations(db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	version, err := currentVersion(db)
	if err != nil {
		t.Fatalf("current version: %v", err)
	}
	if version != 2 {
		t.Fatalf("expected version 2, got %d", version)
	}

	for _, table := range []string{"tasks", "team_members", "comments", "task_counter"} {
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count); err != nil {
			t.Fatalf("check %s: %v", table, err)
		}
		if count != 1 {
			t.Fatalf("%s table not created", table)
		}
	}

	var counter int
	if err := db.QueryRow("SELECT value FROM task_counter WHERE id = 1").Scan(&counter); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	if counter != 0 {
		t.Fatalf("expected counter 0 on fresh db, got %d", counter)
	}
}

func TestRunMigrationsIdempotent(t *testing.T) {
	db := testRawDB(t)

	if err := runMigrations(db); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := runMigrations(db); err != nil {
		t.Fatalf("second run: %v", err)
	}

	version, err := currentVersion(db)
	if err != nil {
		t.Fatalf("current version: %v", err)
	}
	if version != 2 {
		t.Fatalf("expected version 2, got %d", version)
	}
}

func TestMigrationPlan(t *testing.T) {
	db := testRawDB(t)

	plan, err := MigrationPlan(db)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if plan.CurrentVersion != 0 {
		t.Fatalf("expected current 0, got %d", plan.CurrentVersion)
	}
	if plan.AvailableVersion != 2 {
		t.Fatalf("expected available 2, got %d", plan.AvailableVersion)
	}
	if len(plan.Pending) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(plan.Pending))
	}
}

func TestCounterMigrationSeedsFromExistingTasks(t *testing.T) {
	db := testRawDB(t)
	if err := ensureMigrationsTable(db); err != nil {
		t.Fatalf("migrations table: %v", err)
	}

	first := sortedMigrations()[0]
	if _, err := db.Exec(first.SQL); err != nil {
		t.Fatalf("apply v1: %v", err)
	}
	if _, err := db.Exec("INSERT INTO schema_migrations (version, applied_at) VALUES (1, datetime('now'))"); err != nil {
		t.Fatalf("stamp v1: %v", err)
	}
	for _, row := range [][2]string{{"a", "TASK-3"}, {"b", "TASK-12"}, {"c", "TASK-7"}} {
		if _, err := db.Exec(`INSERT INTO tasks (id, task_id, title, created_at, updated_at)
			VALUES (?, ?, 'x', datetime('now'), datetime('now'))`, row[0], row[1]); err != nil {
			t.Fatalf("insert %s: %v", row[1], err)
		}
	}

	if err := runMigrations(db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	var counter int
	if err := db.QueryRow("SELECT value FROM task_counter WHERE id = 1").Scan(&counter); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	if counter != 12 {
		t.Fatalf("expected counter seeded to 12, got %d", counter)
	}
}
