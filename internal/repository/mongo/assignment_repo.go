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

const assignmentCollectionName = "assignments"

// mongoAssignmentRepository implements repository.AssignmentRepository
type mongoAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAssignmentRepository creates a new Assignment repository.
func NewMongoAssignmentRepository(db *mongo.Database) repository.AssignmentRepository {
	return &mongoAssignmentRepository{
		collection: db.Collection(assignmentCollectionName),
	}
}

// Create inserts a new schedule assignment.
func (r *mongoAssignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) (primitive.ObjectID, error) {
	if assignment.PlanID == primitive.NilObjectID || assignment.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("assignment requires planId and userId")
	}
	assignment.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, assignment)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted assignment ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single assignment by its ID.
func (r *mongoAssignmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Assignment, error) {
	var assignment domain.Assignment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&assignment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

// GetByUserID retrieves all assignments for an athlete, ordered by creation
// time so that occurrence expansion sees a stable input order.
func (r *mongoAssignmentRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Assignment, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

// GetPublishedByCoachID retrieves the coach's published self-schedule entries.
func (r *mongoAssignmentRepository) GetPublishedByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Assignment, error) {
	return r.find(ctx, bson.M{"coachId": coachID, "published": true})
}

func (r *mongoAssignmentRepository) find(ctx context.Context, filter bson.M) ([]domain.Assignment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []domain.Assignment
	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// Delete removes an assignment, ensuring the coach owns it.
func (r *mongoAssignmentRepository) Delete(ctx context.Context, id primitive.ObjectID, coachID primitive.ObjectID) error {
	if id == primitive.NilObjectID || coachID == primitive.NilObjectID {
		return errors.New("assignment ID and coach ID are required for deletion")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "coachId": coachID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		// Assignment not found OR not owned by this coach.
		return repository.ErrNotFound
	}
	return nil
}

// EnsureAssignmentIndexes creates necessary indexes. Call during startup.
func EnsureAssignmentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}, {Key: "published", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
