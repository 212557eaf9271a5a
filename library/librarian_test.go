package library

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type fakeConfirmer struct{ answer bool }

func (f *fakeConfirmer) Confirm(prompt string) (bool, error) { return f.answer, nil }

type fakeSecretReader struct{ secret string }

func (f *fakeSecretReader) ReadSecret(prompt string) (string, error) { return f.secret, nil }

type testEnv struct {
	lib     *Librarian
	store   *Store
	confirm *fakeConfirmer
	secrets *fakeSecretReader
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "lib.db"))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	hash, err := HashSecret("letmein")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	confirm := &fakeConfirmer{answer: true}
	secrets := &fakeSecretReader{secret: "letmein"}
	gate, err := NewAuthGate(hash, secrets, zerolog.Nop())
	if err != nil {
		t.Fatalf("gate: %v", err)
	}

	return &testEnv{
		lib:     NewLibrarian(store, confirm, gate, zerolog.Nop()),
		store:   store,
		confirm: confirm,
		secrets: secrets,
	}
}

func (e *testEnv) addBook(t *testing.T, title, isbn string, quantity int) string {
	t.Helper()
	msg, err := e.lib.AddBook(title, "Test Author", isbn, quantity)
	if err != nil {
		t.Fatalf("add book: %v", err)
	}
	return extractID(t, msg)
}

func (e *testEnv) addUser(t *testing.T, name string) string {
	t.Helper()
	msg, err := e.lib.AddUser(name, "female", 30)
	if err != nil {
		t.Fatalf("add user: %v", err)
	}
	return extractID(t, msg)
}

// extractID pulls the "(id xxx)" suffix out of a success message.
func extractID(t *testing.T, msg string) string {
	t.Helper()
	i := strings.LastIndex(msg, "(id ")
	j := strings.LastIndex(msg, ")")
	if i < 0 || j <= i {
		t.Fatalf("no id in message %q", msg)
	}
	return msg[i+len("(id ") : j]
}

func countRows(t *testing.T, store *Store, table string) int {
	t.Helper()
	var n int
	if err := store.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestAddBookDuplicateISBN(t *testing.T) {
	env := newTestEnv(t)
	env.addBook(t, "Dune", "978-0441013593", 3)

	_, err := env.lib.AddBook("Dune Reprint", "Other Author", "978-0441013593", 1)
	if err == nil {
		t.Fatalf("expected duplicate isbn to fail")
	}
	if !strings.Contains(err.Error(), "978-0441013593") {
		t.Fatalf("error should name the isbn, got %v", err)
	}
	if n := countRows(t, env.store, "books"); n != 1 {
		t.Fatalf("expected 1 book row, got %d", n)
	}
}

func TestAddBookValidation(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.lib.AddBook("", "A", "i", 1); err == nil {
		t.Fatalf("empty title accepted")
	}
	if _, err := env.lib.AddBook("T", "A", "i", 0); err == nil {
		t.Fatalf("zero quantity accepted")
	}
	if n := countRows(t, env.store, "books"); n != 0 {
		t.Fatalf("validation failures must not write, got %d rows", n)
	}
}

func TestAddRentalUpdatesStock(t *testing.T) {
	env := newTestEnv(t)
	bookID := env.addBook(t, "Dune", "isbn-1", 3)
	userID := env.addUser(t, "Alice Smith")

	msg, err := env.lib.AddRental(userID, bookID, "01/09/2026")
	if err != nil {
		t.Fatalf("add rental: %v", err)
	}
	if !strings.Contains(msg, "Dune") || !strings.Contains(msg, "Alice Smith") {
		t.Fatalf("unexpected message %q", msg)
	}

	book, err := env.store.GetBook(bookID)
	if err != nil {
		t.Fatalf("get book: %v", err)
	}
	if book.Quantity != 2 {
		t.Fatalf("quantity = %d, want 2", book.Quantity)
	}
	if book.TimesRented != 1 {
		t.Fatalf("times rented = %d, want 1", book.TimesRented)
	}
	if n := countRows(t, env.store, "rentals"); n != 1 {
		t.Fatalf("rentals = %d, want 1", n)
	}
}

func TestAddRentalOutOfStock(t *testing.T) {
	env := newTestEnv(t)
	bookID := env.addBook(t, "Dune", "isbn-1", 1)
	userID := env.addUser(t, "Alice Smith")

	if _, err := env.lib.AddRental(userID, bookID, "01/09/2026"); err != nil {
		t.Fatalf("first rental: %v", err)
	}
	_, err := env.lib.AddRental(userID, bookID, "02/09/2026")
	if err == nil || !strings.Contains(err.Error(), "out of stock") {
		t.Fatalf("expected out of stock, got %v", err)
	}

	// A failed rental must not touch stock or rentals.
	book, _ := env.store.GetBook(bookID)
	if book.Quantity != 0 || book.TimesRented != 1 {
		t.Fatalf("stock mutated on failure: quantity=%d rented=%d", book.Quantity, book.TimesRented)
	}
	if n := countRows(t, env.store, "rentals"); n != 1 {
		t.Fatalf("rentals = %d, want 1", n)
	}
}

func TestAddRentalUnknownUserOrBook(t *testing.T) {
	env := newTestEnv(t)
	bookID := env.addBook(t, "Dune", "isbn-1", 1)
	userID := env.addUser(t, "Alice Smith")

	if _, err := env.lib.AddRental("user_missing", bookID, "01/09/2026"); err == nil {
		t.Fatalf("unknown user accepted")
	}
	if _, err := env.lib.AddRental(userID, "book_missing", "01/09/2026"); err == nil {
		t.Fatalf("unknown book accepted")
	}
	if n := countRows(t, env.store, "rentals"); n != 0 {
		t.Fatalf("rentals = %d, want 0", n)
	}
}

func TestReturnBookAndDoubleReturn(t *testing.T) {
	env := newTestEnv(t)
	bookID := env.addBook(t, "Dune", "isbn-1", 2)
	userID := env.addUser(t, "Alice Smith")

	msg, err := env.lib.AddRental(userID, bookID, "01/09/2026")
	if err != nil {
		t.Fatalf("add rental: %v", err)
	}
	rentalID := extractRentalID(t, msg)

	if _, err := env.lib.ReturnBook(rentalID, "05/09/2026"); err != nil {
		t.Fatalf("return: %v", err)
	}

	rental, err := env.store.GetRental(rentalID)
	if err != nil {
		t.Fatalf("get rental: %v", err)
	}
	if rental.Active() {
		t.Fatalf("rental still active after return")
	}
	if rental.ReturnDate != "05/09/2026" {
		t.Fatalf("return date = %q", rental.ReturnDate)
	}
	book, _ := env.store.GetBook(bookID)
	if book.Quantity != 2 {
		t.Fatalf("quantity = %d, want 2 after return", book.Quantity)
	}

	// Returned is terminal.
	_, err = env.lib.ReturnBook(rentalID, "06/09/2026")
	if err == nil || !strings.Contains(err.Error(), "already returned") {
		t.Fatalf("expected already-returned error, got %v", err)
	}
	book, _ = env.store.GetBook(bookID)
	if book.Quantity != 2 {
		t.Fatalf("double return inflated quantity to %d", book.Quantity)
	}
}

func extractRentalID(t *testing.T, msg string) string {
	t.Helper()
	i := strings.LastIndex(msg, "(rental id ")
	j := strings.LastIndex(msg, ")")
	if i < 0 || j <= i {
		t.Fatalf("no rental id in %q", msg)
	}
	return msg[i+len("(rental id ") : j]
}

func TestDeleteUserBlockedByRentals(t *testing.T) {
	env := newTestEnv(t)
	bookID := env.addBook(t, "Dune", "isbn-1", 2)
	userID := env.addUser(t, "Alice Smith")
	if _, err := env.lib.AddRental(userID, bookID, "01/09/2026"); err != nil {
		t.Fatalf("add rental: %v", err)
	}

	_, err := env.lib.DeleteUser(userID)
	if err == nil || !strings.Contains(err.Error(), "cannot be deleted") {
		t.Fatalf("expected rental block, got %v", err)
	}
	if n := countRows(t, env.store, "users"); n != 1 {
		t.Fatalf("user deleted despite rentals")
	}
}

func TestDeleteUserDeclined(t *testing.T) {
	env := newTestEnv(t)
	userID := env.addUser(t, "Alice Smith")
	env.confirm.answer = false

	msg, err := env.lib.DeleteUser(userID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if msg != "Deletion cancelled." {
		t.Fatalf("msg = %q", msg)
	}
	if n := countRows(t, env.store, "users"); n != 1 {
		t.Fatalf("declined delete still removed user")
	}
}

func TestDeleteUser(t *testing.T) {
	env := newTestEnv(t)
	userID := env.addUser(t, "Alice Smith")

	if _, err := env.lib.DeleteUser(userID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n := countRows(t, env.store, "users"); n != 0 {
		t.Fatalf("user not deleted")
	}
}

func TestDeleteBookWithHistory(t *testing.T) {
	env := newTestEnv(t)
	bookID := env.addBook(t, "Dune", "isbn-1", 2)
	userID := env.addUser(t, "Alice Smith")
	if _, err := env.lib.AddRental(userID, bookID, "01/09/2026"); err != nil {
		t.Fatalf("add rental: %v", err)
	}

	// FOREIGN KEY on rentals.book_id blocks the delete.
	_, err := env.lib.DeleteBook(bookID)
	if err == nil || !strings.Contains(err.Error(), "rental history") {
		t.Fatalf("expected history block, got %v", err)
	}
}

func TestExecuteSQLWrongSecret(t *testing.T) {
	env := newTestEnv(t)
	env.addBook(t, "Dune", "isbn-1", 2)
	env.secrets.secret = "wrong"

	msg, err := env.lib.ExecuteSQL("DELETE FROM books", nil)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if msg != RejectionMessage {
		t.Fatalf("msg = %q, want rejection", msg)
	}
	// The statement must not have run.
	if n := countRows(t, env.store, "books"); n != 1 {
		t.Fatalf("books mutated on rejected secret")
	}
}

func TestExecuteSQL(t *testing.T) {
	env := newTestEnv(t)
	env.addBook(t, "Dune", "isbn-1", 2)

	msg, err := env.lib.ExecuteSQL("UPDATE books SET quantity = ? WHERE isbn = ?", []any{float64(10), "isbn-1"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if msg != "SQL executed successfully, 1 row(s) affected." {
		t.Fatalf("msg = %q", msg)
	}
	var q int
	if err := env.store.db.QueryRow(`SELECT quantity FROM books WHERE isbn='isbn-1'`).Scan(&q); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if q != 10 {
		t.Fatalf("quantity = %d, want 10", q)
	}
}

func TestMassExecuteContinuesPastFailures(t *testing.T) {
	env := newTestEnv(t)
	env.addBook(t, "Dune", "isbn-1", 2)

	out, err := env.lib.MassExecute([]Statement{
		{Query: "UPDATE books SET quantity = 5 WHERE isbn = 'isbn-1'"},
		{Query: "UPDATE no_such_table SET x = 1"},
		{Query: "UPDATE books SET quantity = 7 WHERE isbn = 'isbn-1'"},
	})
	if err != nil {
		t.Fatalf("mass execute: %v", err)
	}
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("want 3 result lines, got %d: %q", len(lines), out)
	}
	if !strings.Contains(lines[1], "Error executing SQL") {
		t.Fatalf("statement 2 should fail: %q", lines[1])
	}

	// First and third statements both ran despite the middle failure.
	var q int
	if err := env.store.db.QueryRow(`SELECT quantity FROM books WHERE isbn='isbn-1'`).Scan(&q); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if q != 7 {
		t.Fatalf("quantity = %d, want 7", q)
	}
}

func TestMassExecuteWrongSecret(t *testing.T) {
	env := newTestEnv(t)
	env.addBook(t, "Dune", "isbn-1", 2)
	env.secrets.secret = "nope"

	out, err := env.lib.MassExecute([]Statement{{Query: "DELETE FROM books"}})
	if err != nil {
		t.Fatalf("mass execute: %v", err)
	}
	if out != RejectionMessage {
		t.Fatalf("out = %q", out)
	}
	if n := countRows(t, env.store, "books"); n != 1 {
		t.Fatalf("books mutated on rejected secret")
	}
}

func TestFetchData(t *testing.T) {
	env := newTestEnv(t)
	env.addBook(t, "Dune", "isbn-1", 2)

	out := env.lib.FetchData("SELECT title FROM books WHERE isbn = ?", []any{"isbn-1"})
	if !strings.Contains(out, `"title":"Dune"`) {
		t.Fatalf("out = %q", out)
	}

	out = env.lib.FetchData("SELECT title FROM books WHERE isbn = ?", []any{"missing"})
	if out != "Query returned no results." {
		t.Fatalf("out = %q", out)
	}

	out = env.lib.FetchData("SELECT nope FROM nothing", nil)
	if !strings.HasPrefix(out, "Error fetching data:") {
		t.Fatalf("out = %q", out)
	}
}
