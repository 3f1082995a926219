package session

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/classdesk/core"
)

// Manager is the session context handed to every component that reads or writes the Session.
// It holds no copy of its own: the Store is the only source of truth.
type Manager struct {
	store  Store
	logger core.Logger
}

func NewManager(store Store, logger core.Logger) *Manager {
	return &Manager{store: store, logger: logger}
}

// Create starts a session after a successful login, replacing any previous one.
func (m *Manager) Create(ctx context.Context, sess Session) error {
	if !sess.Valid() {
		return ErrInvalidSession
	}
	return errors.Wrap(m.store.Save(ctx, sess), "saving session")
}

// Update replaces the current session. It fails with ErrNoSession when nobody is logged in.
func (m *Manager) Update(ctx context.Context, sess Session) error {
	if !sess.Valid() {
		return ErrInvalidSession
	}
	if m.Current(ctx) == nil {
		return ErrNoSession
	}
	return errors.Wrap(m.store.Save(ctx, sess), "saving session")
}

// Destroy ends the current session, if any.
func (m *Manager) Destroy(ctx context.Context) error {
	return errors.Wrap(m.store.Clear(ctx), "clearing session")
}

// Current returns the persisted session, or nil when there is none.
func (m *Manager) Current(ctx context.Context) *Session {
	sess, err := m.store.Load(ctx)
	if err != nil {
		if errors.Cause(err) != ErrNoSession {
			m.logger.Warn("loading session", err)
		}
		return nil
	}
	if !sess.Valid() {
		return nil
	}
	return sess
}
