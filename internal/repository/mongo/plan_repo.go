// internal/repository/mongo/plan_repo.go
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

const planCollectionName = "plans"

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new Plan repository.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// Create inserts a new training plan.
func (r *mongoPlanRepository) Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	if plan.OwnerID == primitive.NilObjectID || plan.Name == "" {
		return primitive.NilObjectID, errors.New("plan requires ownerId and name")
	}
	plan.ID = primitive.NewObjectID()
	plan.Sessions = domain.NormalizeSessions(plan.Sessions)
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single plan owned by ownerID.
func (r *mongoPlanRepository) GetByID(ctx context.Context, ownerID, id primitive.ObjectID) (*domain.Plan, error) {
	var plan domain.Plan
	filter := bson.M{"_id": id, "ownerId": ownerID}
	err := r.collection.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// List retrieves the owner's plans, newest first.
func (r *mongoPlanRepository) List(ctx context.Context, ownerID primitive.ObjectID, f repository.PlanFilter) ([]domain.Plan, error) {
	filter := bson.M{"ownerId": ownerID}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	plans := []domain.Plan{}
	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// Update writes the plan's fields. The session list is replaced as a whole.
func (r *mongoPlanRepository) Update(ctx context.Context, plan *domain.Plan) error {
	if plan.ID == primitive.NilObjectID {
		return errors.New("plan ID is required for update")
	}
	plan.Sessions = domain.NormalizeSessions(plan.Sessions)
	plan.UpdatedAt = time.Now().UTC()

	filter := bson.M{"_id": plan.ID, "ownerId": plan.OwnerID}
	set := bson.M{
		"name":      plan.Name,
		"goal":      plan.Goal,
		"focusArea": plan.FocusArea,
		"status":    plan.Status,
		"intensity": plan.Intensity,
		"startDate": plan.StartDate,
		"notes":     plan.Notes,
		"sessions":  plan.Sessions,
		"updatedAt": plan.UpdatedAt,
	}
	updateDoc := bson.M{"$set": set}
	if plan.EndDate != nil {
		set["endDate"] = plan.EndDate
	} else {
		updateDoc["$unset"] = bson.M{"endDate": ""}
	}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a plan owned by ownerID. Workouts referencing it are left alone.
func (r *mongoPlanRepository) Delete(ctx context.Context, ownerID, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "ownerId": ownerID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetSessionStatus updates one session through the positional operator so
// the rest of the session list is not rewritten.
func (r *mongoPlanRepository) SetSessionStatus(ctx context.Context, ownerID, planID, sessionID primitive.ObjectID, status domain.SessionStatus) error {
	filter := bson.M{
		"_id":          planID,
		"ownerId":      ownerID,
		"sessions._id": sessionID,
	}
	update := bson.M{
		"$set": bson.M{
			"sessions.$.status": status,
			"updatedAt":         time.Now().UTC(),
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

// EnsurePlanIndexes creates necessary indexes. Call during startup.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "status", Value: 1}},
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
