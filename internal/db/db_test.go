package db

import (
	"path/filepath"
	"testing"
)

func TestMigrateIsIdempotent(t *testing.T) {
	database := NewTestDB(t)

	if err := Migrate(database); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	version, dirty, err := SchemaVersion(database)
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if version != 1 {
		t.Errorf("expected schema version 1, got %d", version)
	}
	if dirty {
		t.Error("expected clean schema")
	}
}

func TestItemsTableColumns(t *testing.T) {
	database := NewTestDB(t)

	rows, err := database.Query(`SELECT name, "notnull", pk FROM pragma_table_info('items')`)
	if err != nil {
		t.Fatalf("table_info: %v", err)
	}
	defer rows.Close()

	type column struct {
		notNull bool
		pk      bool
	}
	got := map[string]column{}
	for rows.Next() {
		var name string
		var notNull, pk int
		if err := rows.Scan(&name, &notNull, &pk); err != nil {
			t.Fatalf("scanning column: %v", err)
		}
		got[name] = column{notNull: notNull == 1, pk: pk == 1}
	}

	want := map[string]column{
		"id":          {pk: true},
		"name":        {notNull: true},
		"price":       {notNull: true},
		"description": {},
		"image_path":  {},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d columns, got %d: %v", len(want), len(got), got)
	}
	for name, c := range want {
		if got[name] != c {
			t.Errorf("column %s: expected %+v, got %+v", name, c, got[name])
		}
	}
}

func TestOpenFileDatabaseSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bakery.db")

	first, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := Migrate(first); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if _, err := first.Exec(`INSERT INTO items (id, name, price) VALUES ('a', 'Bagel', 1.5)`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	if err := Migrate(second); err != nil {
		t.Fatalf("Migrate after reopen: %v", err)
	}

	var count int
	if err := second.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 row after reopen, got %d", count)
	}
}
