package mongo

import (
	"alcyxob/workout-engine/internal/domain"
	"alcyxob/workout-engine/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionCollectionName = "sessions"

// mongoSessionRepository implements repository.SessionRepository
type mongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new Session repository.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

// Create inserts a new session.
func (r *mongoSessionRepository) Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error) {
	if session.UserID == primitive.NilObjectID || session.PlanID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("session requires userId and planId")
	}
	session.ID = primitive.NewObjectID()

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted session ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single session by its ID.
func (r *mongoSessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error) {
	var session domain.Session
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// GetActiveByUserID retrieves the most recently started in_progress session
// for the user. This query is how the one-active-session-per-user invariant
// is enforced; there is no database constraint behind it.
func (r *mongoSessionRepository) GetActiveByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Session, error) {
	filter := bson.M{"userId": userID, "status": domain.SessionInProgress}
	findOptions := options.FindOne().SetSort(bson.D{{Key: "startedAt", Value: -1}})

	var session domain.Session
	err := r.collection.FindOne(ctx, filter, findOptions).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// Update replaces the mutable state of a session (status, end time,
// finalization aggregates).
func (r *mongoSessionRepository) Update(ctx context.Context, session *domain.Session) error {
	if session.ID == primitive.NilObjectID {
		return errors.New("session ID is required for update")
	}

	updateDoc := bson.M{
		"$set": bson.M{
			"status":             session.Status,
			"endedAt":            session.EndedAt,
			"totalSeconds":       session.TotalSeconds,
			"exercisesCompleted": session.ExercisesCompleted,
			"totalVolume":        session.TotalVolume,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": session.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CountCompletedInWindow counts completed sessions for (userID, planID) whose
// startedAt lies within [from, to].
func (r *mongoSessionRepository) CountCompletedInWindow(ctx context.Context, userID, planID primitive.ObjectID, from, to time.Time) (int64, error) {
	filter := bson.M{
		"userId": userID,
		"planId": planID,
		"status": domain.SessionCompleted,
		"startedAt": bson.M{
			"$gte": from,
			"$lte": to,
		},
	}
	return r.collection.CountDocuments(ctx, filter)
}

// EnsureSessionIndexes creates necessary indexes. Call during startup.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}, {Key: "startedAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "planId", Value: 1}, {Key: "status", Value: 1}, {Key: "startedAt", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
