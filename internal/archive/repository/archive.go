package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	archiveerrors "nestbook/internal/archive/errors"
	"nestbook/pkg/config"
	mongotx "nestbook/pkg/db/mongo"
	"nestbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Archives"
)

// ArchiveRepository stores property snapshots keyed by the property's
// own id, so archiving the same property twice is a first-class
// conflict rather than a silent duplicate.
type ArchiveRepository interface {
	Create(ctx context.Context, record *model.ArchiveRecord) error
	FindByID(ctx context.Context, id string) (*model.ArchiveRecord, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.ArchiveRecord, error)
	Count(ctx context.Context) (int64, error)
	UpdateWindows(ctx context.Context, id string, restoreAfter, deleteAfter *time.Time) error
	Delete(ctx context.Context, id string) error
	FindExpired(ctx context.Context, asOf time.Time) ([]*model.ArchiveRecord, error)
	DeleteExpired(ctx context.Context, asOf time.Time) (int64, error)

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoArchiveRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoArchiveRepository(cfg *config.Config) ArchiveRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoArchiveRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout unless we are already
// inside a transaction: a SessionContext cannot be wrapped without
// breaking transaction semantics.
func (r *mongoArchiveRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoArchiveRepository) Create(ctx context.Context, record *model.ArchiveRecord) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", archiveerrors.ErrAlreadyArchived, record.ID)
		}
		return fmt.Errorf("failed to create archive record: %w", err)
	}
	return nil
}

func (r *mongoArchiveRepository) FindByID(ctx context.Context, id string) (*model.ArchiveRecord, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if id == "" {
		return nil, archiveerrors.ErrInvalidID
	}

	var record model.ArchiveRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, archiveerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find archive record: %w", err)
	}

	return &record, nil
}

func (r *mongoArchiveRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.ArchiveRecord, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "archived_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find archive records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*model.ArchiveRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode archive records: %w", err)
	}

	return records, nil
}

func (r *mongoArchiveRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count archive records: %w", err)
	}
	return count, nil
}

func (r *mongoArchiveRepository) UpdateWindows(ctx context.Context, id string, restoreAfter, deleteAfter *time.Time) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	set := bson.M{}
	if restoreAfter != nil {
		set["restore_after"] = *restoreAfter
	}
	if deleteAfter != nil {
		set["delete_after"] = *deleteAfter
	}
	if len(set) == 0 {
		return nil
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update archive windows: %w", err)
	}
	if result.MatchedCount == 0 {
		return archiveerrors.ErrNotFound
	}
	return nil
}

func (r *mongoArchiveRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete archive record: %w", err)
	}
	if result.DeletedCount == 0 {
		return archiveerrors.ErrNotFound
	}
	return nil
}

func expiredFilter(asOf time.Time) bson.M {
	return bson.M{"delete_after": bson.M{"$ne": nil, "$lte": asOf}}
}

func (r *mongoArchiveRepository) FindExpired(ctx context.Context, asOf time.Time) ([]*model.ArchiveRecord, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, expiredFilter(asOf))
	if err != nil {
		return nil, fmt.Errorf("failed to find expired archives: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*model.ArchiveRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode archive records: %w", err)
	}

	return records, nil
}

// DeleteExpired hard-deletes every record whose delete_after has
// passed. This is the point of no return for a deleted listing.
func (r *mongoArchiveRepository) DeleteExpired(ctx context.Context, asOf time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, expiredFilter(asOf))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired archives: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *mongoArchiveRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
