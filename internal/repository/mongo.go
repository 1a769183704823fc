package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DocumentCollection is the collection name used by the Mongo backend.
const DocumentCollection = "documents"

type mongoDocument struct {
	Key           string    `bson:"_id"`
	SchemaVersion int       `bson:"schema_version"`
	Body          string    `bson:"body"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

type mongoDocumentRepository struct {
	collection *mongo.Collection
}

// NewMongoDocumentRepository stores one Mongo document per key, with the
// key as _id.
func NewMongoDocumentRepository(collection *mongo.Collection) DocumentRepository {
	return &mongoDocumentRepository{collection: collection}
}

func (r *mongoDocumentRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var doc mongoDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find %s: %w", key, err)
	}
	return []byte(doc.Body), nil
}

func (r *mongoDocumentRepository) Put(ctx context.Context, key string, schemaVersion int, body []byte) error {
	doc := mongoDocument{
		Key:           key,
		SchemaVersion: schemaVersion,
		Body:          string(body),
		UpdatedAt:     time.Now().UTC(),
	}
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo replace %s: %w", key, err)
	}
	return nil
}

func (r *mongoDocumentRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, readpref.Primary())
}

func (r *mongoDocumentRepository) Name() string { return "mongo" }
