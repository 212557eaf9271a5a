package library

import (
	"path/filepath"
	"testing"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "lib.db"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSchemaIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lib.db")

	first, err := NewStore(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if _, err := first.db.Exec(`INSERT INTO books VALUES ('book_x', 'T', 'A', 'i', 1, 0)`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	first.Close()

	// Reopening must keep existing data intact.
	second, err := NewStore(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer second.Close()

	book, err := second.GetBook("book_x")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if book.Title != "T" {
		t.Fatalf("title = %q", book.Title)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	store := tempStore(t)
	_, err := store.db.Exec(
		`INSERT INTO rentals (rental_id, user_id, book_id, rental_date, return_date) VALUES ('r1', 'nobody', 'nothing', '01/01/2026', NULL)`)
	if err == nil {
		t.Fatalf("orphan rental accepted")
	}
}

func TestQuantityCheckConstraint(t *testing.T) {
	store := tempStore(t)
	_, err := store.db.Exec(`INSERT INTO books VALUES ('book_x', 'T', 'A', 'i', -1, 0)`)
	if err == nil {
		t.Fatalf("negative quantity accepted")
	}
}

func TestExecSQLAppliesStatement(t *testing.T) {
	store := tempStore(t)
	if _, err := store.db.Exec(`INSERT INTO books VALUES ('book_x', 'T', 'A', 'i', 1, 0)`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	out, err := store.ExecSQL("UPDATE books SET quantity = ? WHERE book_id = ?", []any{9, "book_x"})
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	if out != "SQL executed successfully, 1 row(s) affected." {
		t.Fatalf("out = %q", out)
	}
	var q int
	if err := store.db.QueryRow(`SELECT quantity FROM books WHERE book_id='book_x'`).Scan(&q); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if q != 9 {
		t.Fatalf("quantity = %d, want 9", q)
	}

	out, err = store.ExecSQL("DELETE FROM books WHERE book_id = ?", []any{"book_x"})
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	if out != "SQL executed successfully, 1 row(s) affected." {
		t.Fatalf("out = %q", out)
	}
	var n int
	if err := store.db.QueryRow(`SELECT COUNT(*) FROM books`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("row survived delete, count = %d", n)
	}
}
