package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/omrozmn/x-ear-sub010/internal/model"
)

// MongoStore persists the snapshot as a single document replaced on every
// write, keyed by a fixed _id.
type MongoStore struct {
	coll *mongo.Collection
	key  string
}

type snapshotEntity struct {
	ID        string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func NewMongoStore(collection *mongo.Collection, key string) *MongoStore {
	return &MongoStore{coll: collection, key: key}
}

func (s *MongoStore) Save(ctx context.Context, data []byte) error {
	const op = "snapshot.mongo.Save"

	ent := snapshotEntity{
		ID:        s.key,
		Data:      data,
		UpdatedAt: time.Now().UTC(),
	}

	_, err := s.coll.ReplaceOne(
		ctx,
		bson.M{"_id": s.key},
		ent,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *MongoStore) Load(ctx context.Context) ([]byte, error) {
	const op = "snapshot.mongo.Load"

	var ent snapshotEntity
	err := s.coll.FindOne(ctx, bson.M{"_id": s.key}).Decode(&ent)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrNoSnapshot
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ent.Data, nil
}
