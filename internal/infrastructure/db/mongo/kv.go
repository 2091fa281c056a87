package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/deepmetric/institute-portal/internal/infrastructure/storage"
)

const defaultCollection = "portal_state"

var _ storage.KV = (*KV)(nil)

// KV keeps one document per logical record key.
type KV struct {
	coll *mongo.Collection
}

func NewKV(db *mongo.Database, collection string) *KV {
	if collection == "" {
		collection = defaultCollection
	}
	return &KV{coll: db.Collection(collection)}
}

type mongoRecord struct {
	Key       string `bson:"_id"`
	Value     string `bson:"value"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (s *KV) Get(ctx context.Context, key string) ([]byte, error) {
	var rec mongoRecord
	if err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&rec); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("find record %s: %w", key, err)
	}
	return []byte(rec.Value), nil
}

func (s *KV) Put(ctx context.Context, key string, value []byte) error {
	rec := mongoRecord{Key: key, Value: string(value), UpdatedAt: time.Now().Unix()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": key}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert record %s: %w", key, err)
	}
	return nil
}

func (s *KV) Delete(ctx context.Context, key string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("delete record %s: %w", key, err)
	}
	return nil
}

func (s *KV) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}
