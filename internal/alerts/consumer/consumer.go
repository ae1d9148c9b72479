package consumer

import (
	"context"

	"nestbook/internal/alerts/service"
	"nestbook/pkg/kafka"
	"nestbook/pkg/logger"
	"nestbook/pkg/model"
)

// NewAlertHandler returns the message handler for the alerts topic:
// decode the alert and store it in the receiver's inbox. Malformed
// payloads are permanent failures, so they go straight to the DLQ
// instead of burning retries.
func NewAlertHandler(svc service.AlertService, log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var alert model.Alert
		if err := msg.DecodeValue(&alert); err != nil {
			log.Error("Failed to decode alert message",
				"event_id", msg.GetEventID(),
				"error", err,
			)
			return kafka.NewPermanentError("invalid alert payload", err)
		}

		// The broker id is not the inbox id; let Mongo assign one.
		alert.ID = ""

		if err := svc.Store(ctx, &alert); err != nil {
			return err
		}

		log.Info("Alert stored",
			"alert_type", alert.Type,
			"receiver", alert.Receiver,
			"event_id", msg.GetEventID(),
		)
		return nil
	}
}
