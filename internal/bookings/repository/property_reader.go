package repository

import (
	"context"
	"errors"
	"fmt"

	bookingserrors "nestbook/internal/bookings/errors"
	"nestbook/pkg/config"
	"nestbook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PropertyReader is the bookings service's read-only view of listings.
// Booking creation validates lease terms and listing status inside the
// same transaction as the conflict check, so it reads the collection
// directly instead of calling the properties service.
type PropertyReader interface {
	FindByID(ctx context.Context, id string) (*model.Property, error)
}

type mongoPropertyReader struct {
	collection *mongo.Collection
}

func NewPropertyReader(cfg *config.Config) PropertyReader {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPropertyReader{
		collection: db.Collection("Properties"),
	}
}

func (r *mongoPropertyReader) FindByID(ctx context.Context, id string) (*model.Property, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var property model.Property
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to find property: %w", err)
	}

	return &property, nil
}
