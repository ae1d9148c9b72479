package mongo

import (
	"context"
	"sync"

	apperrors "nestbook/pkg/errors"
	"nestbook/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChangeEvent is a single document change delivered by a Subscription.
// FullDocument is the post-image for inserts and updates; replay it
// into the caller's own type with bson.Unmarshal.
type ChangeEvent struct {
	OperationType string   `bson:"operationType"`
	FullDocument  bson.Raw `bson:"fullDocument"`
	DocumentKey   struct {
		ID any `bson:"_id"`
	} `bson:"documentKey"`
}

// Subscription is a cancellable live feed over a collection's change
// stream. Events is closed once the stream ends, after which Err
// reports the terminal error, if any.
type Subscription struct {
	events chan ChangeEvent
	cancel context.CancelFunc

	mu  sync.Mutex
	err error
}

func (s *Subscription) Events() <-chan ChangeEvent {
	return s.events
}

func (s *Subscription) Cancel() {
	s.cancel()
}

func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Subscription) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Watch opens a change stream on the collection filtered by the given
// match stage (nil for all changes) and pumps events until the caller
// cancels or the stream breaks.
func Watch(ctx context.Context, log *logger.Logger, coll *mongo.Collection, match bson.D) (*Subscription, error) {
	pipeline := mongo.Pipeline{}
	if match != nil {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}

	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)

	streamCtx, cancel := context.WithCancel(ctx)
	stream, err := coll.Watch(streamCtx, pipeline, opts)
	if err != nil {
		cancel()
		return nil, apperrors.TransientStore("failed to open change stream", err)
	}

	sub := &Subscription{
		events: make(chan ChangeEvent),
		cancel: cancel,
	}

	go func() {
		defer close(sub.events)
		defer stream.Close(context.Background())

		for stream.Next(streamCtx) {
			var event ChangeEvent
			if err := stream.Decode(&event); err != nil {
				log.Error("Failed to decode change stream event", "error", err)
				continue
			}

			select {
			case sub.events <- event:
			case <-streamCtx.Done():
				return
			}
		}

		if err := stream.Err(); err != nil && streamCtx.Err() == nil {
			log.Error("Change stream terminated", "collection", coll.Name(), "error", err)
			sub.setErr(apperrors.TransientStore("change stream terminated", err))
		}
	}()

	return sub, nil
}
