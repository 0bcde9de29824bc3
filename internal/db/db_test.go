package db

import (
	"path/filepath"
	"testing"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestOpen_CreatesDatabase(t *testing.T) {
	database := openTest(t)
	if err := database.Ping(); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestOpen_CreatesParentDirs(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), ".voiceprint", "nested", "voiceprint.db")
	database, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer database.Close()
}

func TestOpen_TablesExist(t *testing.T) {
	database := openTest(t)

	tables := []string{"profiles", "messages", "sessions", "transcripts", "fingerprints", "schema_migrations"}
	for _, table := range tables {
		var count int
		err := database.Conn().QueryRow(
			`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table,
		).Scan(&count)
		if err != nil {
			t.Fatalf("query table %q: %v", table, err)
		}
		if count != 1 {
			t.Errorf("table %q not found", table)
		}
	}
}

func TestOpen_MigrationsRecorded(t *testing.T) {
	database := openTest(t)

	var count int
	err := database.Conn().QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count)
	if err != nil {
		t.Fatalf("query migrations: %v", err)
	}
	if count != len(migrations) {
		t.Errorf("expected %d migrations recorded, got %d", len(migrations), count)
	}
}

func TestOpen_Idempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db1, err := Open(dbPath)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if _, err := db1.Conn().Exec(
		`INSERT INTO profiles (user_id, version, schema_version, document) VALUES ('u', 1, 2, '{}')`,
	); err != nil {
		t.Fatalf("insert: %v", err)
	}
	db1.Close()

	db2, err := Open(dbPath)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer db2.Close()

	var count int
	if err := db2.Conn().QueryRow(`SELECT COUNT(*) FROM profiles`).Scan(&count); err != nil {
		t.Fatalf("count profiles: %v", err)
	}
	if count != 1 {
		t.Errorf("expected profile row to survive re-open, got %d rows", count)
	}
}

func TestOpen_VectorTable(t *testing.T) {
	database := openTest(t)

	var count int
	database.Conn().QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE name='vec_fingerprints'`,
	).Scan(&count)
	if database.HasVector() != (count > 0) {
		t.Errorf("HasVector() = %v but vec_fingerprints exists = %v", database.HasVector(), count > 0)
	}
	t.Logf("sqlite-vec available: %v", database.HasVector())
}

func TestClose(t *testing.T) {
	database, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := database.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := database.Ping(); err == nil {
		t.Error("expected Ping to fail after Close")
	}
}
