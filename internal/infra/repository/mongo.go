package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository[T any] struct {
	mongo *mongo.Database
}

func NewMongoRepository[T any](mongo *mongo.Database) *MongoRepository[T] {
	return &MongoRepository[T]{mongo: mongo}
}

// Upsert replaces the document of a conversation, creating it when missing.
func (r *MongoRepository[T]) Upsert(ctx context.Context, collectionName string, conversationID string, entity T) (T, error) {
	collection := r.mongo.Collection(collectionName)
	filter := bson.M{"conversation_id": conversationID}

	_, err := collection.ReplaceOne(ctx, filter, entity, options.Replace().SetUpsert(true))
	return entity, err
}

// FindByConversationID returns mongo.ErrNoDocuments when nothing matches.
func (r *MongoRepository[T]) FindByConversationID(ctx context.Context, collectionName string, conversationID string) (T, error) {
	var entity T
	collection := r.mongo.Collection(collectionName)
	filter := bson.M{"conversation_id": conversationID}
	err := collection.FindOne(ctx, filter).Decode(&entity)
	return entity, err
}

// EnsureConversationIndex makes conversation_id unique so concurrent upserts
// for one call cannot create two documents.
func (r *MongoRepository[T]) EnsureConversationIndex(ctx context.Context, collectionName string) error {
	_, err := r.mongo.Collection(collectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "conversation_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
