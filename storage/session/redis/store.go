package redisstore

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/classdesk/core/session"
)

const keyPrefix = "classdesk:session:"

type store struct {
	client *redis.Client
	key    string
}

var _ session.Store = (*store)(nil)

// NewStore returns a Store keeping the session under a single Redis key, without expiry.
// Handy when several terminals on different hosts should share one login.
func NewStore(client *redis.Client, key string) session.Store {
	return &store{client: client, key: keyPrefix + key}
}

func (s *store) Save(ctx context.Context, sess session.Session) error {
	data, err := sonic.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	return errors.Wrap(s.client.Set(ctx, s.key, data, 0).Err(), "redis SET")
}

func (s *store) Load(ctx context.Context) (*session.Session, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, session.ErrNoSession
		}
		return nil, errors.Wrap(err, "redis GET")
	}

	var sess session.Session
	if err = sonic.Unmarshal(data, &sess); err != nil || !sess.Valid() {
		return nil, session.ErrNoSession // corrupt
	}
	return &sess, nil
}

func (s *store) Clear(ctx context.Context) error {
	return errors.Wrap(s.client.Del(ctx, s.key).Err(), "redis DEL")
}
