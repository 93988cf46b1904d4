package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const kvCollection = "kv_entries"

type kvDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type MongoKVStore struct {
	DB       *mongo.Client
	Database string
}

func NewMongoKVStore(db *mongo.Client, database string) *MongoKVStore {
	return &MongoKVStore{DB: db, Database: database}
}

func (r *MongoKVStore) collection() *mongo.Collection {
	return r.DB.Database(r.Database).Collection(kvCollection)
}

func (r *MongoKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	var doc kvDocument
	err := r.collection().FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", false, nil
		}
		return "", false, err
	}
	return doc.Value, true, nil
}

func (r *MongoKVStore) Set(ctx context.Context, key, value string) error {
	_, err := r.collection().UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$set": bson.M{"value": value, "updatedAt": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *MongoKVStore) Remove(ctx context.Context, key string) error {
	_, err := r.collection().DeleteOne(ctx, bson.M{"_id": key})
	return err
}

func (r *MongoKVStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	filter := bson.M{"_id": bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)}}
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"_id": 1})

	cur, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	keys := []string{}
	for cur.Next(ctx) {
		var doc kvDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		keys = append(keys, doc.Key)
	}
	return keys, cur.Err()
}
