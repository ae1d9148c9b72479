package notify

import (
	"context"

	apperrors "nestbook/pkg/errors"
	"nestbook/pkg/kafka"
	"nestbook/pkg/logger"
	"nestbook/pkg/model"
)

// Notifier delivers alerts to the people a booking decision affects.
// Delivery is best-effort: booking state is committed before the alert
// is published, and a failed publish never rolls the decision back.
type Notifier interface {
	Notify(ctx context.Context, alert *model.Alert) error
}

type kafkaNotifier struct {
	producer *kafka.Producer
	source   string
	log      *logger.Logger
}

func NewKafkaNotifier(producer *kafka.Producer, source string, log *logger.Logger) Notifier {
	return &kafkaNotifier{
		producer: producer,
		source:   source,
		log:      log,
	}
}

// Notify publishes the alert keyed by receiver, so one user's inbox is
// always delivered in order.
func (n *kafkaNotifier) Notify(ctx context.Context, alert *model.Alert) error {
	msg := kafka.NewMessage().
		WithKey(alert.Receiver).
		WithValue(alert).
		WithEventType(string(alert.Type)).
		WithCorrelationID(alert.BookingID).
		WithSource(n.source).
		Build()

	if err := n.producer.Publish(ctx, msg); err != nil {
		n.log.Error("Failed to publish alert",
			"alert_type", alert.Type,
			"receiver", alert.Receiver,
			"booking_id", alert.BookingID,
			"error", err,
		)
		return apperrors.TransientStore("failed to publish alert", err)
	}

	return nil
}

type nopNotifier struct{}

// NewNopNotifier is for services that mutate bookings in contexts
// where no alert pipeline is running, such as the migration tool.
func NewNopNotifier() Notifier {
	return nopNotifier{}
}

func (nopNotifier) Notify(context.Context, *model.Alert) error {
	return nil
}
