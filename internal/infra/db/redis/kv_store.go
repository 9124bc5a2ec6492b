package redis

import (
	"context"
	"errors"

	goredis "github.com/redis/go-redis/v9"

	"rentdesk/internal/infra/storage/kv"
)

const backendName = "redis"

// KVStore maps each key to a plain string value under Prefix.
type KVStore struct {
	rdb    goredis.UniversalClient
	prefix string
}

func NewKVStore(rdb goredis.UniversalClient, prefix string) *KVStore {
	if prefix == "" {
		prefix = "rentdesk:"
	}
	return &KVStore{rdb: rdb, prefix: prefix}
}

func (s *KVStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, kv.Wrap(backendName, "load", key, err)
	}
	return data, true, nil
}

func (s *KVStore) Save(ctx context.Context, key string, data []byte) error {
	return kv.Wrap(backendName, "save", key, s.rdb.Set(ctx, s.prefix+key, data, 0).Err())
}

var _ kv.Store = (*KVStore)(nil)
