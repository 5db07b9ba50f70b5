package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"habitd/internal/model"
)

func TestMigrateRoundTripCompatibility(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate-roundtrip.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first migrate up failed: %v", err)
	}

	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down failed: %v", err)
	}

	if err := MigrateUp(db); err != nil {
		t.Fatalf("second migrate up failed: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}

	id, err := repo.CreateHabit(context.Background(), model.Habit{
		Name:      "Roundtrip habit",
		CreatedAt: "2024-01-01",
	})
	if err != nil {
		t.Fatalf("insert after roundtrip failed: %v", err)
	}

	got, err := repo.GetHabit(context.Background(), id)
	if err != nil {
		t.Fatalf("get after roundtrip failed: %v", err)
	}
	if got.Name != "Roundtrip habit" {
		t.Fatalf("unexpected name after roundtrip: %q", got.Name)
	}
}
