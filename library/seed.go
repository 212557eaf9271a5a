package library

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
)

// SeedBooksCSV upserts books from a CSV file with the header
// book_id,title,author,isbn,quantity,amount_of_times_rented. Rows are keyed
// by book_id so re-running the seed is idempotent. A missing file is not an
// error; the seed is optional.
func SeedBooksCSV(store *Store, path string, log zerolog.Logger) error {
	f, err := os.Open(filepath.Clean(path))
	if os.IsNotExist(err) {
		log.Info().Str("path", path).Msg("no seed file found, skipping initialisation")
		return nil
	}
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read seed header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"book_id", "title", "author", "isbn", "quantity", "amount_of_times_rented"} {
		if _, ok := col[required]; !ok {
			return fmt.Errorf("seed file missing column %q", required)
		}
	}

	tx, err := store.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	imported := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read seed row: %w", err)
		}

		quantity, err := strconv.Atoi(record[col["quantity"]])
		if err != nil || quantity < 0 {
			quantity = 0
		}
		rented, err := strconv.Atoi(record[col["amount_of_times_rented"]])
		if err != nil || rented < 0 {
			rented = 0
		}

		_, err = tx.Exec(`
            INSERT INTO books (book_id, title, author, isbn, quantity, amount_of_times_rented)
            VALUES (?, ?, ?, ?, ?, ?)
            ON CONFLICT(book_id) DO UPDATE SET
                title=excluded.title,
                author=excluded.author,
                isbn=excluded.isbn,
                quantity=excluded.quantity,
                amount_of_times_rented=excluded.amount_of_times_rented`,
			record[col["book_id"]], record[col["title"]], record[col["author"]],
			record[col["isbn"]], quantity, rented)
		if err != nil {
			return fmt.Errorf("upsert book %s: %w", record[col["book_id"]], err)
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	log.Info().Int("books", imported).Str("path", path).Msg("seed import complete")
	return nil
}
