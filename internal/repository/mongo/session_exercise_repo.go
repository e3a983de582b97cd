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

const sessionExerciseCollectionName = "session_exercises"

// mongoSessionExerciseRepository implements repository.SessionExerciseRepository
type mongoSessionExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionExerciseRepository creates a new SessionExercise repository.
func NewMongoSessionExerciseRepository(db *mongo.Database) repository.SessionExerciseRepository {
	return &mongoSessionExerciseRepository{
		collection: db.Collection(sessionExerciseCollectionName),
	}
}

// CreateMany inserts the per-exercise snapshot rows for a freshly started
// session, assigning IDs, and returns them.
func (r *mongoSessionExerciseRepository) CreateMany(ctx context.Context, exercises []domain.SessionExercise) ([]domain.SessionExercise, error) {
	if len(exercises) == 0 {
		return exercises, nil
	}

	docs := make([]interface{}, len(exercises))
	for i := range exercises {
		if exercises[i].SessionID == primitive.NilObjectID {
			return nil, errors.New("session exercise requires sessionId")
		}
		exercises[i].ID = primitive.NewObjectID()
		docs[i] = exercises[i]
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return exercises, nil
}

// GetByID retrieves a single session exercise by its ID.
func (r *mongoSessionExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SessionExercise, error) {
	var exercise domain.SessionExercise
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// GetBySessionID retrieves the exercises of a session in template order.
func (r *mongoSessionExerciseRepository) GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) ([]domain.SessionExercise, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "orderIndex", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"sessionId": sessionID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exercises []domain.SessionExercise
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// Update replaces the progress markers of a session exercise.
func (r *mongoSessionExerciseRepository) Update(ctx context.Context, exercise *domain.SessionExercise) error {
	if exercise.ID == primitive.NilObjectID {
		return errors.New("session exercise ID is required for update")
	}

	updateDoc := bson.M{
		"$set": bson.M{
			"startedAt":   exercise.StartedAt,
			"completedAt": exercise.CompletedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": exercise.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureSessionExerciseIndexes creates necessary indexes. Call during startup.
func EnsureSessionExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "sessionId", Value: 1}, {Key: "orderIndex", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
