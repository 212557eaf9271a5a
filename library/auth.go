package library

import (
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// RejectionMessage is the fixed sentinel relayed into the dialogue when the
// operator fails the secret check. The statement is never executed in that
// case.
const RejectionMessage = "authorization denied: incorrect secret"

// AuthGate guards destructive raw-SQL execution behind a salted-hash secret
// check. The secret is read immediately before each pending operation; a
// failed check aborts only that operation.
type AuthGate struct {
	hash    []byte
	secrets SecretReader
	log     zerolog.Logger
}

// NewAuthGate builds a gate around a bcrypt hash of the shared secret.
func NewAuthGate(bcryptHash string, secrets SecretReader, log zerolog.Logger) (*AuthGate, error) {
	if bcryptHash == "" {
		return nil, fmt.Errorf("auth gate: secret hash is required")
	}
	if _, err := bcrypt.Cost([]byte(bcryptHash)); err != nil {
		return nil, fmt.Errorf("auth gate: invalid bcrypt hash: %w", err)
	}
	return &AuthGate{hash: []byte(bcryptHash), secrets: secrets, log: log}, nil
}

// Authorize shows the operator what is about to run, collects the secret via
// hidden input, and verifies it. It returns true only on a correct secret;
// every outcome is logged.
func (g *AuthGate) Authorize(preview string) (bool, error) {
	prompt := fmt.Sprintf("You are about to execute:\n\n%s\n\nThis change is irreversible. Enter the secret to confirm: ", preview)
	secret, err := g.secrets.ReadSecret(prompt)
	if err != nil {
		return false, err
	}

	if err := bcrypt.CompareHashAndPassword(g.hash, []byte(secret)); err != nil {
		g.log.Warn().Msg("secret verification failed, aborting statement")
		return false, nil
	}

	g.log.Info().Msg("destructive statement authorized")
	return true, nil
}

// HashSecret produces a bcrypt hash suitable for LIBRARY_SECRET_HASH.
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(hash), nil
}
