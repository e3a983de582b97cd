package mongo

import (
	"alcyxob/workout-engine/internal/domain"
	"alcyxob/workout-engine/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const setLogCollectionName = "set_logs"

// mongoSetLogRepository implements repository.SetLogRepository
type mongoSetLogRepository struct {
	collection *mongo.Collection
}

// NewMongoSetLogRepository creates a new SetLog repository.
func NewMongoSetLogRepository(db *mongo.Database) repository.SetLogRepository {
	return &mongoSetLogRepository{
		collection: db.Collection(setLogCollectionName),
	}
}

// CreateMany inserts the eager set log rows for a freshly started session,
// assigning IDs, and returns them.
func (r *mongoSetLogRepository) CreateMany(ctx context.Context, logs []domain.SetLog) ([]domain.SetLog, error) {
	if len(logs) == 0 {
		return logs, nil
	}

	docs := make([]interface{}, len(logs))
	for i := range logs {
		if logs[i].SessionExerciseID == primitive.NilObjectID || logs[i].SessionID == primitive.NilObjectID {
			return nil, errors.New("set log requires sessionExerciseId and sessionId")
		}
		logs[i].ID = primitive.NewObjectID()
		docs[i] = logs[i]
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return logs, nil
}

// GetByID retrieves a single set log by its ID.
func (r *mongoSetLogRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SetLog, error) {
	var log domain.SetLog
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&log)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &log, nil
}

// GetBySessionID retrieves all set logs for a session ordered by
// (sessionExerciseId, setIndex).
func (r *mongoSetLogRepository) GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) ([]domain.SetLog, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "sessionExerciseId", Value: 1}, {Key: "setIndex", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"sessionId": sessionID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []domain.SetLog
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// Upsert writes the set log keyed on its natural composite key
// (sessionExerciseId, setIndex). Re-logging a set overwrites the previous
// actuals: last write wins.
func (r *mongoSetLogRepository) Upsert(ctx context.Context, log *domain.SetLog) error {
	if log.SessionExerciseID == primitive.NilObjectID {
		return errors.New("set log requires sessionExerciseId")
	}

	filter := bson.M{
		"sessionExerciseId": log.SessionExerciseID,
		"setIndex":          log.SetIndex,
	}
	updateDoc := bson.M{
		"$set": bson.M{
			"sessionId":         log.SessionID,
			"targetReps":        log.TargetReps,
			"targetWeight":      log.TargetWeight,
			"actualReps":        log.ActualReps,
			"actualWeight":      log.ActualWeight,
			"restSecondsActual": log.RestSecondsActual,
			"completedAt":       log.CompletedAt,
			"skipped":           log.Skipped,
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, updateDoc, options.Update().SetUpsert(true))
	return err
}

// EnsureSetLogIndexes creates necessary indexes. Call during startup.
func EnsureSetLogIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Natural composite key used by Upsert.
			Keys:    bson.D{{Key: "sessionExerciseId", Value: 1}, {Key: "setIndex", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "sessionId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
