package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"voice-relay/internal/domain/entities"
)

type MongoCallSessionRepository struct {
	*MongoRepository[entities.CallSession]
}

func NewMongoCallSessionRepository(mongo *mongo.Database) *MongoCallSessionRepository {
	return &MongoCallSessionRepository{MongoRepository: NewMongoRepository[entities.CallSession](mongo)}
}

// ApplyUpdate upserts the session with one pipeline update. The stage only
// advances when the update ranks higher than the stored stage_rank, and the
// history entry is appended on the server, so concurrent callbacks cannot
// lose each other's writes.
func (r *MongoCallSessionRepository) ApplyUpdate(ctx context.Context, collectionName string, conversationID string, update entities.SessionUpdate, now time.Time) error {
	collection := r.mongo.Collection(collectionName)
	filter := bson.M{"conversation_id": conversationID}

	_, err := collection.UpdateOne(ctx, filter, sessionUpdatePipeline(update, now), options.Update().SetUpsert(true))
	return err
}

// sessionUpdatePipeline mirrors entities.CallSession.Apply as a server-side
// update. Field references inside one $set stage read the document as it was
// before the stage, so stage and stage_rank are both decided on the old rank.
// Caller supplied strings are wrapped in $literal so a leading '$' is never
// read as a field path.
func sessionUpdatePipeline(update entities.SessionUpdate, now time.Time) mongo.Pipeline {
	rank := update.Stage.Rank()
	storedRank := bson.M{"$ifNull": bson.A{"$stage_rank", 0}}
	event := entities.StageEvent{Stage: update.Stage, Detail: update.Detail, Timestamp: now}

	set := bson.D{
		{Key: "created_at", Value: bson.M{"$ifNull": bson.A{"$created_at", now}}},
		{Key: "updated_at", Value: now},
		{Key: "history", Value: bson.M{"$concatArrays": bson.A{
			bson.M{"$ifNull": bson.A{"$history", bson.A{}}},
			bson.A{bson.M{"$literal": event}},
		}}},
		{Key: "stage", Value: bson.M{"$cond": bson.A{
			bson.M{"$gt": bson.A{rank, storedRank}},
			bson.M{"$literal": string(update.Stage)},
			"$stage",
		}}},
		{Key: "stage_rank", Value: bson.M{"$max": bson.A{rank, storedRank}}},
	}

	optional := []struct {
		key   string
		value string
	}{
		{"recording_url", update.RecordingURL},
		{"object_key", update.ObjectKey},
		{"job_name", update.JobName},
	}
	for _, field := range optional {
		if field.value != "" {
			set = append(set, bson.E{Key: field.key, Value: bson.M{"$literal": field.value}})
		}
	}

	return mongo.Pipeline{{{Key: "$set", Value: set}}}
}
