package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"rentdesk/internal/infra/storage/kv"
)

const backendName = "mongo"

// KVStore keeps one document per key in the "kv" collection. The JSON
// document is stored as a string so it round-trips byte for byte.
type KVStore struct {
	col *mongo.Collection
}

func NewKVStore(db *mongo.Database) *KVStore {
	return &KVStore{col: db.Collection("kv")}
}

type kvDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (s *KVStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var doc kvDocument
	if err := s.col.FindOne(ctx, bson.M{"_id": key}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, nil
		}
		return nil, false, kv.Wrap(backendName, "load", key, err)
	}
	return []byte(doc.Value), true, nil
}

func (s *KVStore) Save(ctx context.Context, key string, data []byte) error {
	doc := kvDocument{Key: key, Value: string(data), UpdatedAt: time.Now().UTC()}
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	return kv.Wrap(backendName, "save", key, err)
}

var _ kv.Store = (*KVStore)(nil)
