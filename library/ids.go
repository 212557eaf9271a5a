package library

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	idLength   = 8
)

// newID generates an entity id like "book_4f2k9x1q". There is no collision
// retry: at 8 lowercase-alphanumeric characters a collision is vanishingly
// rare for a small library, and if one does occur the primary-key constraint
// rejects the insert and the operation reports a persistence error without
// mutating anything.
func newID(prefix string) string {
	suffix, err := gonanoid.Generate(idAlphabet, idLength)
	if err != nil {
		// gonanoid only fails if the OS entropy source is broken.
		panic(fmt.Sprintf("generate id: %v", err))
	}
	return prefix + "_" + suffix
}
