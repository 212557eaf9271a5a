package library

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Store provides high-level helpers around a SQLite connection.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at dbPath and creates the
// schema if it is missing. Foreign-key enforcement is on for the lifetime of
// the connection.
func NewStore(dbPath string) (*Store, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	// Enable busy_timeout and foreign keys.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the raw connection for the seed loader and tests.
func (s *Store) DB() *sql.DB { return s.db }

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

func createSchema(db *sql.DB) error {
	// WAL improves write concurrency.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS books (
            book_id TEXT PRIMARY KEY,
            title TEXT NOT NULL,
            author TEXT NOT NULL,
            isbn TEXT NOT NULL UNIQUE,
            quantity INTEGER NOT NULL CHECK (quantity >= 0),
            amount_of_times_rented INTEGER NOT NULL CHECK (amount_of_times_rented >= 0)
        );`,
		`CREATE TABLE IF NOT EXISTS users (
            user_id TEXT PRIMARY KEY,
            full_name TEXT NOT NULL,
            gender TEXT NOT NULL,
            age INTEGER NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS rentals (
            rental_id TEXT PRIMARY KEY,
            user_id TEXT NOT NULL REFERENCES users(user_id),
            book_id TEXT NOT NULL REFERENCES books(book_id),
            rental_date TEXT NOT NULL,
            return_date TEXT
        );`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Lookups
// ---------------------------------------------------------------------------

// GetBook fetches a single book, or sql.ErrNoRows.
func (s *Store) GetBook(id string) (*Book, error) {
	var b Book
	err := s.db.QueryRow(
		`SELECT book_id, title, author, isbn, quantity, amount_of_times_rented FROM books WHERE book_id=?`, id).
		Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Quantity, &b.TimesRented)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetUser fetches a single user, or sql.ErrNoRows.
func (s *Store) GetUser(id string) (*User, error) {
	var u User
	err := s.db.QueryRow(
		`SELECT user_id, full_name, gender, age FROM users WHERE user_id=?`, id).
		Scan(&u.ID, &u.FullName, &u.Gender, &u.Age)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetRental fetches a single rental, or sql.ErrNoRows.
func (s *Store) GetRental(id string) (*Rental, error) {
	var r Rental
	var returned sql.NullString
	err := s.db.QueryRow(
		`SELECT rental_id, user_id, book_id, rental_date, return_date FROM rentals WHERE rental_id=?`, id).
		Scan(&r.ID, &r.UserID, &r.BookID, &r.RentalDate, &returned)
	if err != nil {
		return nil, err
	}
	r.ReturnDate = returned.String
	return &r, nil
}

// RentalCountForUser returns the number of rentals referencing userID.
func (s *Store) RentalCountForUser(userID string) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM rentals WHERE user_id=?`, userID).Scan(&n)
	return n, err
}

// ---------------------------------------------------------------------------
// Raw query helpers
// ---------------------------------------------------------------------------

// QueryRowsJSON runs a parameterized query and serializes the result rows as
// a JSON array of objects keyed by column name. Empty results come back as a
// fixed message so the model has something to read.
func (s *Store) QueryRowsJSON(query string, params []any) (string, error) {
	rows, err := s.db.Query(query, params...)
	if err != nil {
		return "", err
	}
	defer rows.Close()
	return rowsToJSON(rows)
}

// ExecSQL runs a single parameterized statement. Statements that produce rows
// (SELECT, INSERT ... RETURNING) are serialized like QueryRowsJSON; others
// report the affected row count.
func (s *Store) ExecSQL(query string, params []any) (string, error) {
	rows, err := s.db.Query(query, params...)
	if err != nil {
		return "", err
	}

	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return "", err
	}
	if len(cols) == 0 {
		// The sqlite driver only steps a statement inside Next, so a
		// statement with no result columns has not run yet. Close it and
		// execute for real.
		rows.Close()
		res, err := s.db.Exec(query, params...)
		if err != nil {
			return "", err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("SQL executed successfully, %d row(s) affected.", affected), nil
	}

	defer rows.Close()
	return rowsToJSON(rows)
}

func rowsToJSON(rows *sql.Rows) (string, error) {
	cols, err := rows.Columns()
	if err != nil {
		return "", err
	}

	out := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return "", err
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[col] = v
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	if len(out) == 0 {
		return "Query returned no results.", nil
	}

	data, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
