package store

import (
	"path/filepath"
	"testing"

	"github.com/tengjizhang/bbopml/internal/store/migrations"
)

func TestOpenDB_MigrationsAreAppliedAndIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "library.db")

	db, err := OpenDB(dbPath)
	if err != nil {
		t.Fatalf("OpenDB first: %v", err)
	}
	_ = db.Close()

	db, err = OpenDB(dbPath)
	if err != nil {
		t.Fatalf("OpenDB second: %v", err)
	}
	defer db.Close()

	version, err := migrations.Version(db)
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if version != 2 {
		t.Fatalf("schema version = %d, want 2", version)
	}

	for _, table := range []string{"guide_sets", "guides", "feeds", "reading_lists"} {
		var name string
		if err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name); err != nil {
			t.Fatalf("table %s missing: %v", table, err)
		}
	}
}

func TestOpenDB_CreatesParentDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "library.db")
	db, err := OpenDB(dbPath)
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	_ = db.Close()
}
