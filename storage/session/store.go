// Package sessionstore picks the session.Store backend from the configuration.
package sessionstore

import (
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/classdesk/core"
	"github.com/trezcool/classdesk/core/session"
	"github.com/trezcool/classdesk/storage/session/bolt"
	"github.com/trezcool/classdesk/storage/session/file"
	"github.com/trezcool/classdesk/storage/session/inmem"
	"github.com/trezcool/classdesk/storage/session/redis"
)

// Open returns the Store named by conf.Session.Store.
func Open(conf *core.Config) (session.Store, error) {
	switch conf.Session.Store {
	case "", "file":
		return filestore.NewStore(conf.Session.Path, conf.Session.Key), nil
	case "bolt":
		return boltstore.NewStore(conf.Session.Path, conf.Session.Key), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     conf.Redis.Addr,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		})
		return redisstore.NewStore(client, conf.Session.Key), nil
	case "memory":
		return inmemstore.NewStore(), nil
	default:
		return nil, errors.Errorf("unknown session store %q", conf.Session.Store)
	}
}
