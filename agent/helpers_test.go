package agent

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/bilalammar/library-management-system/library"
)

type stubConfirmer struct{ answer bool }

func (s *stubConfirmer) Confirm(string) (bool, error) { return s.answer, nil }

type stubSecretReader struct{ secret string }

func (s *stubSecretReader) ReadSecret(string) (string, error) { return s.secret, nil }

// scriptedProvider replays a fixed sequence of responses and records every
// request it receives.
type scriptedProvider struct {
	responses []*Response
	errs      []error
	requests  []Request
}

func (p *scriptedProvider) Complete(_ context.Context, req Request) (*Response, error) {
	p.requests = append(p.requests, req)
	i := len(p.requests) - 1
	if i < len(p.errs) && p.errs[i] != nil {
		return nil, p.errs[i]
	}
	if i >= len(p.responses) {
		return nil, errors.New("provider called more times than scripted")
	}
	return p.responses[i], nil
}

func (p *scriptedProvider) Name() string { return "scripted" }

func newTestDispatcher(t *testing.T) (*Dispatcher, *library.Store) {
	t.Helper()
	store, err := library.NewStore(filepath.Join(t.TempDir(), "lib.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	hash, err := library.HashSecret("letmein")
	require.NoError(t, err)
	gate, err := library.NewAuthGate(hash, &stubSecretReader{secret: "letmein"}, zerolog.Nop())
	require.NoError(t, err)

	librarian := library.NewLibrarian(store, &stubConfirmer{answer: true}, gate, zerolog.Nop())
	d, err := NewDispatcher(librarian, zerolog.Nop())
	require.NoError(t, err)
	return d, store
}
