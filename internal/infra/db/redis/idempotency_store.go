package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"rentdesk/internal/app/middleware"
)

// IdempotencyStore keeps records as JSON with a Redis expiry matching
// ExpiresAt.
type IdempotencyStore struct {
	rdb    goredis.UniversalClient
	prefix string
	now    func() time.Time
}

func NewIdempotencyStore(rdb goredis.UniversalClient, prefix string) *IdempotencyStore {
	if prefix == "" {
		prefix = "rentdesk:"
	}
	return &IdempotencyStore{rdb: rdb, prefix: prefix + "idem:", now: time.Now}
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (middleware.IdempotencyRecord, bool, error) {
	raw, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return middleware.IdempotencyRecord{}, false, nil
	}
	if err != nil {
		return middleware.IdempotencyRecord{}, false, err
	}
	var rec middleware.IdempotencyRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return middleware.IdempotencyRecord{}, false, err
	}
	return rec, true, nil
}

func (s *IdempotencyStore) Save(ctx context.Context, rec middleware.IdempotencyRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	var ttl time.Duration
	if !rec.ExpiresAt.IsZero() {
		if ttl = rec.ExpiresAt.Sub(s.now()); ttl <= 0 {
			return nil
		}
	}
	return s.rdb.Set(ctx, s.prefix+rec.Key, raw, ttl).Err()
}

var _ middleware.IdempotencyStore = (*IdempotencyStore)(nil)
