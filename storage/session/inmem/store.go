package inmemstore

import (
	"context"
	"sync"

	"github.com/trezcool/classdesk/core/session"
)

type store struct {
	mutex sync.RWMutex
	sess  *session.Session
}

var _ session.Store = (*store)(nil)

// NewStore returns a Store that lives as long as the process. Used for tests and `session.store=memory`.
func NewStore() session.Store {
	return &store{}
}

func (s *store) Save(_ context.Context, sess session.Session) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.sess = &sess
	return nil
}

func (s *store) Load(_ context.Context) (*session.Session, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.sess == nil {
		return nil, session.ErrNoSession
	}
	sess := *s.sess
	return &sess, nil
}

func (s *store) Clear(_ context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.sess = nil
	return nil
}
