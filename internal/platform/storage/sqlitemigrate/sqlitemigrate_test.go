package sqlitemigrate

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestApplyRunsPendingMigrationsOnce(t *testing.T) {
	db := openTestDB(t)
	migrations := fstest.MapFS{
		"migrations/001_points.sql": {Data: []byte(`-- +migrate Up
CREATE TABLE points (id INTEGER PRIMARY KEY, value REAL NOT NULL);
-- +migrate Down
DROP TABLE points;
`)},
		"migrations/002_seed.sql": {Data: []byte(`INSERT INTO points (id, value) VALUES (1, 0.5);`)},
		"migrations/README.md":    {Data: []byte("ignored")},
	}

	for range 2 {
		if err := Apply(context.Background(), db, migrations, "migrations"); err != nil {
			t.Fatalf("apply migrations: %v", err)
		}
	}

	var rows int
	if err := db.QueryRow(`SELECT COUNT(*) FROM points`).Scan(&rows); err != nil {
		t.Fatalf("count points: %v", err)
	}
	if rows != 1 {
		t.Fatalf("points rows = %d, want 1", rows)
	}

	var recorded int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&recorded); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if recorded != 2 {
		t.Fatalf("recorded migrations = %d, want 2", recorded)
	}

	var name string
	if err := db.QueryRow(`SELECT name FROM schema_migrations ORDER BY name LIMIT 1`).Scan(&name); err != nil {
		t.Fatalf("read migration name: %v", err)
	}
	if name != "migrations/001_points.sql" {
		t.Fatalf("migration key = %q, want %q", name, "migrations/001_points.sql")
	}
}

func TestApplyToleratesExistingTables(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.Exec(`CREATE TABLE points (id INTEGER PRIMARY KEY)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	migrations := fstest.MapFS{
		"001_points.sql": {Data: []byte(`CREATE TABLE points (id INTEGER PRIMARY KEY);`)},
	}
	if err := Apply(context.Background(), db, migrations, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
}

func TestApplyReportsBrokenMigration(t *testing.T) {
	db := openTestDB(t)
	migrations := fstest.MapFS{
		"001_broken.sql": {Data: []byte(`CREATE TABLE (`)},
	}
	if err := Apply(context.Background(), db, migrations, "."); err == nil {
		t.Fatal("expected error for invalid SQL")
	}

	var recorded int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&recorded); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if recorded != 0 {
		t.Fatalf("recorded migrations = %d, want 0", recorded)
	}
}

func TestApplyRequiresDB(t *testing.T) {
	if err := Apply(context.Background(), nil, fstest.MapFS{}, "."); err == nil {
		t.Fatal("expected error for nil db")
	}
}

func TestApplyMissingRoot(t *testing.T) {
	db := openTestDB(t)
	if err := Apply(context.Background(), db, fstest.MapFS{}, "missing"); err == nil {
		t.Fatal("expected error for missing migrations dir")
	}
}

func TestExtractUp(t *testing.T) {
	tcs := []struct {
		name    string
		content string
		want    string
	}{
		{name: "no markers", content: "SELECT 1;", want: "SELECT 1;"},
		{name: "up only", content: "-- +migrate Up\nSELECT 1;", want: "\nSELECT 1;"},
		{name: "up and down", content: "-- +migrate Up\nSELECT 1;\n-- +migrate Down\nSELECT 2;", want: "\nSELECT 1;\n"},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractUp(tc.content); got != tc.want {
				t.Fatalf("ExtractUp() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestIsAlreadyExistsError(t *testing.T) {
	tcs := []struct {
		err  error
		want bool
	}{
		{err: nil, want: false},
		{err: errors.New("table points already exists"), want: true},
		{err: errors.New("duplicate column name: value"), want: true},
		{err: errors.New("syntax error"), want: false},
	}
	for _, tc := range tcs {
		if got := IsAlreadyExistsError(tc.err); got != tc.want {
			t.Fatalf("IsAlreadyExistsError(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
