package filestore

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"github.com/trezcool/classdesk/core/session"
)

type store struct {
	path string
}

var _ session.Store = (*store)(nil)

// NewStore returns a Store keeping the session as JSON in `<dir>/<key>.json`.
func NewStore(dir, key string) session.Store {
	return &store{path: filepath.Join(dir, key+".json")}
}

func (s *store) Save(_ context.Context, sess session.Session) error {
	data, err := sonic.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}

	dir := filepath.Dir(s.path)
	if err = os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrapf(err, "creating %s", dir)
	}

	// write then rename so a crash never leaves half a session on disk
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	//goland:noinspection GoUnhandledErrorResult
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrapf(err, "writing %s", tmp.Name())
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", tmp.Name())
	}
	if err = os.Chmod(tmp.Name(), 0o600); err != nil {
		return errors.Wrapf(err, "chmod %s", tmp.Name())
	}
	return errors.Wrapf(os.Rename(tmp.Name(), s.path), "renaming to %s", s.path)
}

func (s *store) Load(_ context.Context) (*session.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, session.ErrNoSession
		}
		return nil, errors.Wrapf(err, "reading %s", s.path)
	}

	var sess session.Session
	if err = sonic.Unmarshal(data, &sess); err != nil || !sess.Valid() {
		return nil, session.ErrNoSession // corrupt
	}
	return &sess, nil
}

func (s *store) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing %s", s.path)
	}
	return nil
}
