// internal/repository/mongo/workout_repo.go
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

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// Create inserts a new workout.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.OwnerID == primitive.NilObjectID || workout.Title == "" {
		return primitive.NilObjectID, errors.New("workout requires ownerId and title")
	}
	workout.ID = primitive.NewObjectID()
	if workout.Exercises == nil {
		workout.Exercises = []domain.ExerciseEntry{}
	}
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, workout)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single workout owned by ownerID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, ownerID, id primitive.ObjectID) (*domain.Workout, error) {
	var workout domain.Workout
	filter := bson.M{"_id": id, "ownerId": ownerID}
	err := r.collection.FindOne(ctx, filter).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// List retrieves the owner's workouts, most recent date first.
func (r *mongoWorkoutRepository) List(ctx context.Context, ownerID primitive.ObjectID, f repository.WorkoutFilter) ([]domain.Workout, error) {
	filter := bson.M{"ownerId": ownerID}
	if f.PlanID != nil {
		filter["planId"] = *f.PlanID
	}
	if f.From != nil || f.To != nil {
		dateRange := bson.M{}
		if f.From != nil {
			dateRange["$gte"] = *f.From
		}
		if f.To != nil {
			dateRange["$lte"] = *f.To
		}
		filter["date"] = dateRange
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	workouts := []domain.Workout{}
	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

// Update writes the workout's fields, matching on id and owner.
func (r *mongoWorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	if workout.ID == primitive.NilObjectID {
		return errors.New("workout ID is required for update")
	}
	if workout.Exercises == nil {
		workout.Exercises = []domain.ExerciseEntry{}
	}
	workout.UpdatedAt = time.Now().UTC()

	set := bson.M{
		"title":           workout.Title,
		"type":            workout.Type,
		"date":            workout.Date,
		"durationMinutes": workout.DurationMinutes,
		"intensity":       workout.Intensity,
		"notes":           workout.Notes,
		"status":          workout.Status,
		"exercises":       workout.Exercises,
		"updatedAt":       workout.UpdatedAt,
	}
	unset := bson.M{}
	setOptional := func(key string, present bool, value any) {
		if present {
			set[key] = value
		} else {
			unset[key] = ""
		}
	}
	setOptional("planId", workout.PlanID != nil, workout.PlanID)
	setOptional("sessionId", workout.SessionID != nil, workout.SessionID)
	setOptional("perceivedEffort", workout.PerceivedEffort != nil, workout.PerceivedEffort)
	setOptional("calories", workout.Calories != nil, workout.Calories)

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": workout.ID, "ownerId": workout.OwnerID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a workout owned by ownerID.
func (r *mongoWorkoutRepository) Delete(ctx context.Context, ownerID, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "ownerId": ownerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Listing and the weekly summary both read by owner and date
			Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "date", Value: -1}},
		},
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "planId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
