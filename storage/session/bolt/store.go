package boltstore

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"github.com/trezcool/classdesk/core/session"
)

var bucket = []byte("Sessions")

type store struct {
	path    string
	key     []byte
	timeout time.Duration
}

var _ session.Store = (*store)(nil)

// NewStore returns a Store keeping the session under key in the bolt database `<dir>/classdesk.db`.
// The database is opened for each operation: bolt locks the file, and several client
// processes may share it.
func NewStore(dir, key string) session.Store {
	return &store{
		path:    filepath.Join(dir, "classdesk.db"),
		key:     []byte(key),
		timeout: time.Second,
	}
}

func (s *store) open(readOnly bool) (*bbolt.DB, error) {
	if readOnly {
		if _, err := os.Stat(s.path); os.IsNotExist(err) {
			return nil, session.ErrNoSession
		}
	} else if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return nil, errors.Wrapf(err, "creating %s", filepath.Dir(s.path))
	}

	db, err := bbolt.Open(s.path, 0o600, &bbolt.Options{Timeout: s.timeout, ReadOnly: readOnly})
	return db, errors.Wrapf(err, "opening %s", s.path)
}

func (s *store) Save(_ context.Context, sess session.Session) error {
	data, err := sonic.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}

	db, err := s.open(false)
	if err != nil {
		return err
	}
	//goland:noinspection GoUnhandledErrorResult
	defer db.Close()

	return db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucket)
		if err != nil {
			return errors.Wrap(err, "creating bucket")
		}
		return b.Put(s.key, data)
	})
}

func (s *store) Load(_ context.Context) (*session.Session, error) {
	db, err := s.open(true)
	if err != nil {
		return nil, err
	}
	//goland:noinspection GoUnhandledErrorResult
	defer db.Close()

	var data []byte
	err = db.View(func(tx *bbolt.Tx) error {
		if b := tx.Bucket(bucket); b != nil {
			// values are only valid inside the transaction
			data = append([]byte(nil), b.Get(s.key)...)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "reading session")
	}
	if len(data) == 0 {
		return nil, session.ErrNoSession
	}

	var sess session.Session
	if err = sonic.Unmarshal(data, &sess); err != nil || !sess.Valid() {
		return nil, session.ErrNoSession // corrupt
	}
	return &sess, nil
}

func (s *store) Clear(_ context.Context) error {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil
	}
	db, err := s.open(false)
	if err != nil {
		return err
	}
	//goland:noinspection GoUnhandledErrorResult
	defer db.Close()

	return db.Update(func(tx *bbolt.Tx) error {
		if b := tx.Bucket(bucket); b != nil {
			return b.Delete(s.key)
		}
		return nil
	})
}
