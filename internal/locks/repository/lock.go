package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	lockserrors "clubhouse/internal/locks/errors"
	"clubhouse/pkg/config"
	"clubhouse/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Locks"
)

type LockRepository interface {
	Create(ctx context.Context, lock *model.Lock) error
	FindByID(ctx context.Context, id string) (*model.Lock, error)
	FindOverlapping(ctx context.Context, resourceID string, period model.Period) ([]*model.Lock, error)
	FindBetween(ctx context.Context, resourceID string, period model.Period, limit int, offset int64) ([]*model.Lock, error)
	Update(ctx context.Context, id string, lock *model.Lock) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
}

type mongoLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoLockRepository(cfg *config.Config) LockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoLockRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoLockRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoLockRepository) Create(ctx context.Context, lock *model.Lock) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	lock.CreatedAt = now
	lock.LastModifiedAt = now

	result, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		return fmt.Errorf("failed to create lock: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		lock.ID = oid.Hex()
	}
	return nil
}

func (r *mongoLockRepository) FindByID(ctx context.Context, id string) (*model.Lock, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", lockserrors.ErrInvalidID, id)
	}

	var lock model.Lock
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&lock)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, lockserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find lock: %w", err)
	}

	return &lock, nil
}

func (r *mongoLockRepository) FindOverlapping(ctx context.Context, resourceID string, period model.Period) ([]*model.Lock, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"resource_id": resourceID,
		"start_time":  bson.M{"$lt": period.End},
		"end_time":    bson.M{"$gt": period.Start},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping locks: %w", err)
	}
	defer cursor.Close(ctx)

	var locks []*model.Lock
	if err = cursor.All(ctx, &locks); err != nil {
		return nil, fmt.Errorf("failed to decode locks: %w", err)
	}

	return locks, nil
}

func (r *mongoLockRepository) FindBetween(ctx context.Context, resourceID string, period model.Period, limit int, offset int64) ([]*model.Lock, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"resource_id": resourceID,
		"start_time":  bson.M{"$lt": period.End},
		"end_time":    bson.M{"$gt": period.Start},
	}

	opts := options.Find().
		SetLimit(int64(limit)).
		SetSkip(offset).
		SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find locks: %w", err)
	}
	defer cursor.Close(ctx)

	var locks []*model.Lock
	if err = cursor.All(ctx, &locks); err != nil {
		return nil, fmt.Errorf("failed to decode locks: %w", err)
	}

	return locks, nil
}

func (r *mongoLockRepository) Update(ctx context.Context, id string, lock *model.Lock) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", lockserrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"start_time":       lock.Period.Start,
			"end_time":         lock.Period.End,
			"message":          lock.Message,
			"last_modified_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update lock: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, lockserrors.ErrNotFound
	}

	return result, nil
}

func (r *mongoLockRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", lockserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete lock: %w", err)
	}

	if result.DeletedCount == 0 {
		return lockserrors.ErrNotFound
	}

	return nil
}
