package mongo

import (
	"context"
	"errors"
	"time"

	"vitaltrack/fitness-app/internal/domain"
	"vitaltrack/fitness-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const goalCollectionName = "goals"

// mongoGoalRepository implements repository.GoalRepository
type mongoGoalRepository struct {
	collection *mongo.Collection
}

// NewMongoGoalRepository creates a new Goal repository.
func NewMongoGoalRepository(db *mongo.Database) repository.GoalRepository {
	return &mongoGoalRepository{
		collection: db.Collection(goalCollectionName),
	}
}

// Create inserts a new goal.
func (r *mongoGoalRepository) Create(ctx context.Context, goal *domain.Goal) (primitive.ObjectID, error) {
	if goal.OwnerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("goal requires ownerId")
	}
	goal.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	goal.CreatedAt = now
	goal.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, goal)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted goal ID")
	}
	return insertedID, nil
}

// GetByID retrieves a goal owned by ownerID.
func (r *mongoGoalRepository) GetByID(ctx context.Context, ownerID, id primitive.ObjectID) (*domain.Goal, error) {
	var goal domain.Goal
	filter := bson.M{"_id": id, "ownerId": ownerID}
	err := r.collection.FindOne(ctx, filter).Decode(&goal)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &goal, nil
}

// List returns the owner's goals, newest first.
func (r *mongoGoalRepository) List(ctx context.Context, ownerID primitive.ObjectID, f repository.GoalFilter) ([]domain.Goal, error) {
	filter := bson.M{"ownerId": ownerID}
	if f.Period != "" {
		filter["period"] = f.Period
	}
	if f.Active != nil {
		filter["isActive"] = *f.Active
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	goals := []domain.Goal{}
	if err = cursor.All(ctx, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// Update replaces the mutable fields of a goal, matching on id and owner.
func (r *mongoGoalRepository) Update(ctx context.Context, goal *domain.Goal) error {
	if goal.ID == primitive.NilObjectID {
		return errors.New("goal ID is required for update")
	}
	goal.UpdatedAt = time.Now().UTC()

	filter := bson.M{"_id": goal.ID, "ownerId": goal.OwnerID}
	update := bson.M{
		"$set": bson.M{
			"type":      goal.Type,
			"period":    goal.Period,
			"target":    goal.Target,
			"progress":  goal.Progress,
			"unit":      goal.Unit,
			"startDate": goal.StartDate,
			"endDate":   goal.EndDate,
			"isActive":  goal.IsActive,
			"updatedAt": goal.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a goal owned by ownerID.
func (r *mongoGoalRepository) Delete(ctx context.Context, ownerID, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "ownerId": ownerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureGoalIndexes creates necessary indexes. Call during startup.
func EnsureGoalIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Main listing pattern: owner's goals, newest first
			Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			// Weekly summary lookup
			Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "period", Value: 1}, {Key: "isActive", Value: 1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
