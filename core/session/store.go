package session

import (
	"context"

	"github.com/pkg/errors"
)

var (
	ErrNoSession      = errors.New("no session")
	ErrInvalidSession = errors.New("invalid session")
)

// Store persists at most one Session so that it survives a restart of the client.
type Store interface {
	// Save overwrites any previously saved Session.
	Save(ctx context.Context, sess Session) error
	// Load returns ErrNoSession when nothing usable was saved (missing or corrupt).
	Load(ctx context.Context) (*Session, error)
	// Clear removes the saved Session. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}
