package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func createTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "dosely.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec("CREATE TABLE prescriptions (id TEXT PRIMARY KEY)"); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	if _, err := db.Exec("INSERT INTO prescriptions (id) VALUES ('rx-1')"); err != nil {
		t.Fatalf("failed to insert row: %v", err)
	}
	return dbPath
}

func TestCreate(t *testing.T) {
	dbPath := createTestDB(t)
	m := NewManager(dbPath)
	m.now = func() time.Time { return time.Date(2026, 10, 14, 8, 5, 0, 0, time.UTC) }

	path, err := m.Create("pre-migrate")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if filepath.Base(path) != "dosely-20261014-080500-pre-migrate.db" {
		t.Errorf("unexpected snapshot name %s", filepath.Base(path))
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open snapshot: %v", err)
	}
	defer db.Close()
	var id string
	if err := db.QueryRow("SELECT id FROM prescriptions").Scan(&id); err != nil || id != "rx-1" {
		t.Errorf("snapshot does not contain the data: %q, %v", id, err)
	}

	// Same second: a suffix keeps both.
	second, err := m.Create("pre-migrate")
	if err != nil {
		t.Fatalf("second Create failed: %v", err)
	}
	if second == path {
		t.Error("expected a distinct path for a snapshot in the same second")
	}
}

func TestCreate_MissingDatabase(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := m.Create(""); err == nil {
		t.Error("expected error for a missing database")
	}
}

func TestListAndRotate(t *testing.T) {
	dbPath := createTestDB(t)
	m := NewManager(dbPath)

	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < Keep+3; i++ {
		stamp := start.Add(time.Duration(i) * time.Hour)
		m.now = func() time.Time { return stamp }
		if _, err := m.Create(""); err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
	}

	snapshots, err := m.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(snapshots) != Keep {
		t.Fatalf("expected %d snapshots after rotation, got %d", Keep, len(snapshots))
	}
	newest := start.Add(time.Duration(Keep+2) * time.Hour)
	if !snapshots[0].Taken.Equal(newest) {
		t.Errorf("expected newest first (%v), got %v", newest, snapshots[0].Taken)
	}
	oldestKept := start.Add(3 * time.Hour)
	if !snapshots[len(snapshots)-1].Taken.Equal(oldestKept) {
		t.Errorf("expected oldest kept %v, got %v", oldestKept, snapshots[len(snapshots)-1].Taken)
	}

	// Unrelated files are ignored.
	if err := os.WriteFile(filepath.Join(m.Dir(), "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	again, _ := m.List()
	if len(again) != Keep {
		t.Errorf("unrelated files must be ignored, got %d snapshots", len(again))
	}
}

func TestList_NoDirectory(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "dosely.db"))
	snapshots, err := m.List()
	if err != nil || len(snapshots) != 0 {
		t.Errorf("expected no snapshots and no error, got %v, %v", snapshots, err)
	}
}
