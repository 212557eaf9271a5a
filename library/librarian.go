package library

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Librarian exposes the fixed catalogue of domain operations over the Store.
// Validation and persistence failures are returned as errors; the dispatch
// layer folds them into descriptive strings so nothing is raised past the
// tool boundary. Multi-statement operations run in one transaction with
// commit-or-rollback on every exit path.
type Librarian struct {
	store   *Store
	confirm Confirmer
	gate    *AuthGate
	log     zerolog.Logger
	now     func() time.Time
}

// NewLibrarian wires the domain service together.
func NewLibrarian(store *Store, confirm Confirmer, gate *AuthGate, log zerolog.Logger) *Librarian {
	return &Librarian{
		store:   store,
		confirm: confirm,
		gate:    gate,
		log:     log,
		now:     time.Now,
	}
}

// Store exposes the underlying store for the seed loader.
func (l *Librarian) Store() *Store { return l.store }

// ------------------ Books ------------------

// AddBook inserts a new book with a generated id and zero rentals.
func (l *Librarian) AddBook(title, author, isbn string, quantity int) (string, error) {
	if title == "" || author == "" || isbn == "" || quantity <= 0 {
		return "", fmt.Errorf("all fields (title, author, isbn, quantity) are required and quantity must be positive")
	}

	id := newID("book")
	_, err := l.store.db.Exec(
		`INSERT INTO books (book_id, title, author, isbn, quantity, amount_of_times_rented) VALUES (?, ?, ?, ?, ?, 0)`,
		id, title, author, isbn, quantity)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return "", fmt.Errorf("a book with ISBN '%s' already exists", isbn)
		}
		return "", fmt.Errorf("add book: %w", err)
	}

	l.log.Info().Str("book_id", id).Str("isbn", isbn).Msg("book added")
	return fmt.Sprintf("Successfully added '%s' by %s to the library (id %s).", title, author, id), nil
}

// DeleteBook removes a book after interactive confirmation. Declining is a
// no-op reported as cancelled.
func (l *Librarian) DeleteBook(bookID string) (string, error) {
	book, err := l.store.GetBook(bookID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("book with id '%s' not found", bookID)
	}
	if err != nil {
		return "", fmt.Errorf("look up book: %w", err)
	}

	ok, err := l.confirm.Confirm(fmt.Sprintf(
		"Are you sure you want to delete '%s' (id %s)? This action cannot be undone.", book.Title, book.ID))
	if err != nil {
		return "", err
	}
	if !ok {
		return "Deletion cancelled.", nil
	}

	if _, err := l.store.db.Exec(`DELETE FROM books WHERE book_id=?`, bookID); err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return "", fmt.Errorf("book '%s' has rental history and cannot be deleted", book.Title)
		}
		return "", fmt.Errorf("delete book: %w", err)
	}

	l.log.Info().Str("book_id", bookID).Msg("book deleted")
	return fmt.Sprintf("Successfully deleted '%s'.", book.Title), nil
}

// ------------------ Users ------------------

// AddUser registers a new borrower with a generated id.
func (l *Librarian) AddUser(fullName, gender string, age int) (string, error) {
	if fullName == "" || gender == "" || age <= 0 {
		return "", fmt.Errorf("all fields (full_name, gender, age) are required and age must be positive")
	}

	id := newID("user")
	_, err := l.store.db.Exec(
		`INSERT INTO users (user_id, full_name, gender, age) VALUES (?, ?, ?, ?)`,
		id, fullName, gender, age)
	if err != nil {
		return "", fmt.Errorf("add user: %w", err)
	}

	l.log.Info().Str("user_id", id).Msg("user added")
	return fmt.Sprintf("Successfully registered '%s' (id %s).", fullName, id), nil
}

// DeleteUser removes a borrower after confirmation. Users referenced by any
// rental cannot be deleted.
func (l *Librarian) DeleteUser(userID string) (string, error) {
	user, err := l.store.GetUser(userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("user with id '%s' not found", userID)
	}
	if err != nil {
		return "", fmt.Errorf("look up user: %w", err)
	}

	count, err := l.store.RentalCountForUser(userID)
	if err != nil {
		return "", fmt.Errorf("check rentals: %w", err)
	}
	if count > 0 {
		return "", fmt.Errorf("user '%s' has %d rental(s) on record and cannot be deleted", user.FullName, count)
	}

	ok, err := l.confirm.Confirm(fmt.Sprintf(
		"Are you sure you want to delete user '%s' (id %s)? This action cannot be undone.", user.FullName, user.ID))
	if err != nil {
		return "", err
	}
	if !ok {
		return "Deletion cancelled.", nil
	}

	if _, err := l.store.db.Exec(`DELETE FROM users WHERE user_id=?`, userID); err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return "", fmt.Errorf("user '%s' is referenced by rentals and cannot be deleted", user.FullName)
		}
		return "", fmt.Errorf("delete user: %w", err)
	}

	l.log.Info().Str("user_id", userID).Msg("user deleted")
	return fmt.Sprintf("Successfully deleted user '%s'.", user.FullName), nil
}

// ------------------ Circulation ------------------

// AddRental records a new rental and updates book stock in one transaction.
func (l *Librarian) AddRental(userID, bookID, rentalDate string) (string, error) {
	if userID == "" || bookID == "" || rentalDate == "" {
		return "", fmt.Errorf("all fields (user_id, book_id, rental_date) are required")
	}

	tx, err := l.store.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var fullName string
	if err := tx.QueryRow(`SELECT full_name FROM users WHERE user_id=?`, userID).Scan(&fullName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("user with id '%s' not found", userID)
		}
		return "", err
	}

	var title string
	var quantity int
	if err := tx.QueryRow(`SELECT title, quantity FROM books WHERE book_id=?`, bookID).Scan(&title, &quantity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("book with id '%s' not found", bookID)
		}
		return "", err
	}
	if quantity < 1 {
		return "", fmt.Errorf("'%s' is out of stock", title)
	}

	rentalID := newID("rental")
	if _, err := tx.Exec(
		`INSERT INTO rentals (rental_id, user_id, book_id, rental_date, return_date) VALUES (?, ?, ?, ?, NULL)`,
		rentalID, userID, bookID, rentalDate); err != nil {
		return "", fmt.Errorf("insert rental: %w", err)
	}
	if _, err := tx.Exec(
		`UPDATE books SET quantity = quantity - 1, amount_of_times_rented = amount_of_times_rented + 1 WHERE book_id=?`,
		bookID); err != nil {
		return "", fmt.Errorf("update stock: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	l.log.Info().Str("rental_id", rentalID).Str("book_id", bookID).Str("user_id", userID).Msg("rental created")
	return fmt.Sprintf("'%s' rented to %s on %s (rental id %s).", title, fullName, rentalDate, rentalID), nil
}

// ReturnBook closes an active rental and restores book stock in one
// transaction. Returned rentals are terminal; a second return fails.
func (l *Librarian) ReturnBook(rentalID, returnDate string) (string, error) {
	if rentalID == "" || returnDate == "" {
		return "", fmt.Errorf("all fields (rental_id, return_date) are required")
	}

	tx, err := l.store.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var bookID string
	var returned sql.NullString
	if err := tx.QueryRow(`SELECT book_id, return_date FROM rentals WHERE rental_id=?`, rentalID).Scan(&bookID, &returned); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("rental with id '%s' not found", rentalID)
		}
		return "", err
	}
	if returned.Valid {
		return "", fmt.Errorf("rental '%s' was already returned on %s", rentalID, returned.String)
	}

	if _, err := tx.Exec(`UPDATE rentals SET return_date=? WHERE rental_id=?`, returnDate, rentalID); err != nil {
		return "", fmt.Errorf("close rental: %w", err)
	}
	if _, err := tx.Exec(`UPDATE books SET quantity = quantity + 1 WHERE book_id=?`, bookID); err != nil {
		return "", fmt.Errorf("restore stock: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	l.log.Info().Str("rental_id", rentalID).Str("book_id", bookID).Msg("rental returned")
	return fmt.Sprintf("Rental %s closed on %s.", rentalID, returnDate), nil
}

// ------------------ Raw SQL ------------------

// FetchData runs a read-only parameterized query. SQL failures come back as
// strings, never as errors.
func (l *Librarian) FetchData(query string, params []any) string {
	if strings.TrimSpace(query) == "" {
		return "Error fetching data: query is empty."
	}
	result, err := l.store.QueryRowsJSON(query, params)
	if err != nil {
		return fmt.Sprintf("Error fetching data: %v", err)
	}
	return result
}

// ExecuteSQL runs a single destructive parameterized statement behind the
// authorization gate. The preview shown to the operator is display-only; the
// execution path stays parameterized.
func (l *Librarian) ExecuteSQL(query string, params []any) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "Error executing SQL: query is empty.", nil
	}

	ok, err := l.gate.Authorize(FormatSQLForDisplay(query, params))
	if err != nil {
		return "", err
	}
	if !ok {
		return RejectionMessage, nil
	}

	result, err := l.store.ExecSQL(query, params)
	if err != nil {
		return fmt.Sprintf("Error executing SQL: %v", err), nil
	}
	return result, nil
}

// Statement is one entry of a mass_execute batch.
type Statement struct {
	Query  string
	Params []any
}

// MassExecute runs a batch of destructive statements sequentially behind a
// single gate check. Statements run one by one and execution continues past
// individual failures; the batch is deliberately not atomic.
func (l *Librarian) MassExecute(stmts []Statement) (string, error) {
	if len(stmts) == 0 {
		return "Error executing SQL: no statements provided.", nil
	}

	previews := make([]string, len(stmts))
	for i, st := range stmts {
		previews[i] = FormatSQLForDisplay(st.Query, st.Params)
	}

	ok, err := l.gate.Authorize(strings.Join(previews, "\n\n"))
	if err != nil {
		return "", err
	}
	if !ok {
		return RejectionMessage, nil
	}

	results := make([]string, len(stmts))
	for i, st := range stmts {
		res, err := l.store.ExecSQL(st.Query, st.Params)
		if err != nil {
			results[i] = fmt.Sprintf("statement %d: Error executing SQL: %v", i+1, err)
			continue
		}
		results[i] = fmt.Sprintf("statement %d: %s", i+1, res)
	}
	return strings.Join(results, "\n"), nil
}

// ------------------ Utilities ------------------

// CurrentDate returns today's date as DD/MM/YYYY, the format the model uses
// to timestamp rentals and returns.
func (l *Librarian) CurrentDate() string {
	return l.now().Format("02/01/2006")
}
