package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "nestbook/internal/bookings/errors"
	"nestbook/pkg/config"
	mongotx "nestbook/pkg/db/mongo"
	"nestbook/pkg/logger"
	"nestbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

// holdingStatuses are the states that reserve booked dates against
// other candidates.
var holdingStatuses = []model.BookingStatus{
	model.StatusBooked,
	model.StatusViewingConfirmed,
	model.StatusBookingConfirmed,
}

var nonTerminalStatuses = []model.BookingStatus{
	model.StatusBooked,
	model.StatusPendingInvitation,
	model.StatusViewingConfirmed,
	model.StatusBookingConfirmed,
}

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	Count(ctx context.Context) (int64, error)
	FindByProperty(ctx context.Context, propertyID string, activeOnly bool, limit int, offset int64) ([]*model.Booking, error)
	CountByProperty(ctx context.Context, propertyID string, activeOnly bool) (int64, error)
	FindHoldingByProperty(ctx context.Context, propertyID string) ([]*model.Booking, error)
	FindByRequestID(ctx context.Context, requestID string) ([]*model.Booking, error)
	UpdateVersioned(ctx context.Context, booking *model.Booking) error
	DeclineMany(ctx context.Context, ids []string) (int64, error)
	FindElapsedConfirmed(ctx context.Context, asOf time.Time) ([]*model.Booking, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
	Collection() *mongo.Collection
}

type mongoBookingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
	log        *logger.Logger
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
		log:        cfg.Log,
	}
}

// withTimeout wraps the context with a timeout unless we are already
// inside a transaction: a SessionContext cannot be wrapped without
// breaking transaction semantics.
func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.Version = 1

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	return count, nil
}

func propertyFilter(propertyID string, activeOnly bool) bson.M {
	filter := bson.M{"property_id": propertyID}
	if activeOnly {
		filter["status"] = bson.M{"$in": nonTerminalStatuses}
	}
	return filter
}

func (r *mongoBookingRepository) FindByProperty(ctx context.Context, propertyID string, activeOnly bool, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, propertyFilter(propertyID, activeOnly), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings by property: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) CountByProperty(ctx context.Context, propertyID string, activeOnly bool) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, propertyFilter(propertyID, activeOnly))
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings by property: %w", err)
	}
	return count, nil
}

// FindHoldingByProperty returns every booking whose state reserves
// dates on the property. This is the conflict-check working set, so it
// is unpaginated by design: the holding set for one property stays
// small.
func (r *mongoBookingRepository) FindHoldingByProperty(ctx context.Context, propertyID string) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"property_id": propertyID,
		"status":      bson.M{"$in": holdingStatuses},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find holding bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) FindByRequestID(ctx context.Context, requestID string) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{"request_id": requestID})
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings by request: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

// UpdateVersioned writes the booking's mutable fields conditioned on
// the version observed at read time. A concurrent writer advancing the
// version first surfaces as ErrVersionConflict.
func (r *mongoBookingRepository) UpdateVersioned(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(booking.ID)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, booking.ID)
	}

	filter := bson.M{
		"_id":     objectID,
		"version": booking.Version,
	}
	update := bson.M{
		"$set": bson.M{
			"status":       booking.Status,
			"tenants":      booking.Tenants,
			"viewing_date": booking.ViewingDate,
			"updated_at":   time.Now().UTC().Truncate(time.Millisecond),
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	if result.MatchedCount == 0 {
		// Distinguish a missing booking from a lost race.
		count, countErr := r.collection.CountDocuments(ctx, bson.M{"_id": objectID})
		if countErr == nil && count == 0 {
			return bookingserrors.ErrNotFound
		}
		return bookingserrors.ErrVersionConflict
	}

	booking.Version++
	return nil
}

// DeclineMany force-declines the given bookings, skipping any that
// already reached a terminal state. Used for sibling cascades after an
// approval or an invitation decline.
func (r *mongoBookingRepository) DeclineMany(ctx context.Context, ids []string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
		}
		objectIDs = append(objectIDs, oid)
	}

	if len(objectIDs) == 0 {
		return 0, nil
	}

	filter := bson.M{
		"_id":    bson.M{"$in": objectIDs},
		"status": bson.M{"$in": nonTerminalStatuses},
	}
	update := bson.M{
		"$set": bson.M{
			"status":     model.StatusBookingDeclined,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to decline bookings: %w", err)
	}

	return result.ModifiedCount, nil
}

// FindElapsedConfirmed returns confirmed bookings whose reserved dates
// have all passed as of the given instant.
func (r *mongoBookingRepository) FindElapsedConfirmed(ctx context.Context, asOf time.Time) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"status": model.StatusBookingConfirmed,
		"booked_dates": bson.M{
			"$not": bson.M{"$elemMatch": bson.M{"$gte": model.NormalizeDate(asOf)}},
		},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find elapsed bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

// Collection exposes the raw collection for change-stream watches.
func (r *mongoBookingRepository) Collection() *mongo.Collection {
	return r.collection
}
