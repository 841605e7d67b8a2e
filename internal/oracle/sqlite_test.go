package oracle

import (
	"context"
	"path/filepath"
	"testing"

	"spottheai/internal/store"
)

func openTestDB(t *testing.T) *SQLiteOracle {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "blacklist.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func TestSQLiteOracle_ImportAndCheck(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	added, err := db.Import(ctx,
		RuleList{Source: "list1", Artists: []string{"The Velvet Sundown", "Aventhis", ""}},
		RuleList{Source: "list2", Artists: []string{"the velvet sundown"}},
	)
	if err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	if added != 2 {
		t.Errorf("Expected 2 rows added, got %d", added)
	}

	verdict, err := db.CheckArtist(ctx, "THE VELVET SUNDOWN ft. Guest")
	if err != nil {
		t.Fatalf("CheckArtist() error: %v", err)
	}
	if !verdict.Blocked || verdict.Source != "list1" {
		t.Errorf("Expected blocked by list1 (first import wins), got %+v", verdict)
	}

	verdict, err = db.CheckArtist(ctx, "Clean Artist")
	if err != nil {
		t.Fatalf("CheckArtist() error: %v", err)
	}
	if verdict.Blocked {
		t.Errorf("Expected clean verdict, got %+v", verdict)
	}
}

func TestSQLiteOracle_RemoveAndCount(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	if _, err := db.Import(ctx, RuleList{Source: "s", Artists: []string{"A", "B"}}); err != nil {
		t.Fatalf("Import() error: %v", err)
	}

	if err := db.Remove(ctx, "a"); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}

	count, err := db.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 row, got %d", count)
	}
}

func TestSQLiteOracle_LoadInto(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	if _, err := db.Import(ctx, RuleList{Source: "s", Artists: []string{"Artist A", "Artist B"}}); err != nil {
		t.Fatalf("Import() error: %v", err)
	}

	blacklist := store.NewBlacklist(10, 0.01)
	if err := db.LoadInto(ctx, blacklist); err != nil {
		t.Fatalf("LoadInto() error: %v", err)
	}

	if blacklist.Size() != 2 {
		t.Errorf("Expected 2 entries, got %d", blacklist.Size())
	}
	if source, ok := blacklist.Lookup("artist a"); !ok || source != "s" {
		t.Errorf("Lookup(artist a) = %q, %v", source, ok)
	}
}

func TestSQLiteOracle_ReopenKeepsRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "blacklist.db")

	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() error: %v", err)
	}
	if _, err := db.Import(ctx, RuleList{Source: "s", Artists: []string{"A"}}); err != nil {
		t.Fatalf("Import() error: %v", err)
	}
	_ = db.Close()

	db, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() reopen error: %v", err)
	}
	defer db.Close()

	if count, _ := db.Count(ctx); count != 1 {
		t.Errorf("Expected row to survive reopen, got %d", count)
	}
}
