package repository

import (
	"context"
	"fmt"
	"time"

	alertserrors "nestbook/internal/alerts/errors"
	"nestbook/pkg/config"
	"nestbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Alerts"
)

type AlertRepository interface {
	Create(ctx context.Context, alert *model.Alert) error
	FindByReceiver(ctx context.Context, receiver string, limit int, offset int64) ([]*model.Alert, error)
	CountByReceiver(ctx context.Context, receiver string) (int64, error)
	MarkRead(ctx context.Context, id string) error
}

type mongoAlertRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoAlertRepository(cfg *config.Config) AlertRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAlertRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoAlertRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoAlertRepository) Create(ctx context.Context, alert *model.Alert) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	result, err := r.collection.InsertOne(ctx, alert)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		alert.ID = oid.Hex()
	}
	return nil
}

func (r *mongoAlertRepository) FindByReceiver(ctx context.Context, receiver string, limit int, offset int64) ([]*model.Alert, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"receiver": receiver}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find alerts: %w", err)
	}
	defer cursor.Close(ctx)

	var alerts []*model.Alert
	if err = cursor.All(ctx, &alerts); err != nil {
		return nil, fmt.Errorf("failed to decode alerts: %w", err)
	}

	return alerts, nil
}

func (r *mongoAlertRepository) CountByReceiver(ctx context.Context, receiver string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"receiver": receiver})
	if err != nil {
		return 0, fmt.Errorf("failed to count alerts: %w", err)
	}
	return count, nil
}

func (r *mongoAlertRepository) MarkRead(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", alertserrors.ErrInvalidID, id)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark alert read: %w", err)
	}
	if result.MatchedCount == 0 {
		return alertserrors.ErrNotFound
	}

	return nil
}
