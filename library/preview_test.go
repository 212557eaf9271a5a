package library

import (
	"strings"
	"testing"
)

func TestFormatSQLForDisplay(t *testing.T) {
	cases := []struct {
		name   string
		query  string
		params []any
		want   string
	}{
		{"no params", "SELECT * FROM books", nil, "SELECT * FROM books"},
		{"string param", "DELETE FROM books WHERE isbn = ?", []any{"123"}, "DELETE FROM books WHERE isbn = '123'"},
		{"quote escaping", "SELECT ? AS v", []any{"O'Brien"}, "SELECT 'O''Brien' AS v"},
		{"null param", "UPDATE rentals SET return_date = ?", []any{nil}, "UPDATE rentals SET return_date = NULL"},
		{"integral float", "UPDATE books SET quantity = ?", []any{float64(3)}, "UPDATE books SET quantity = 3"},
		{"fractional float", "UPDATE books SET rating = ?", []any{2.5}, "UPDATE books SET rating = 2.5"},
		{"multiple params", "SELECT ?, ?", []any{"a", float64(1)}, "SELECT 'a', 1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FormatSQLForDisplay(tc.query, tc.params)
			if got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFormatSQLForDisplayMismatch(t *testing.T) {
	got := FormatSQLForDisplay("SELECT ?", []any{"a", "b"})
	if !strings.HasPrefix(got, "ERROR: parameter count mismatch") {
		t.Fatalf("got %q", got)
	}
}
