package consumer

import (
	"context"
	"encoding/json"

	"go-perf/internal/events"
	"go-perf/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeNotifications reads notification events and delivers them over
// SMTP. Malformed events and unknown kinds are committed and dropped;
// transient send failures are retried by not committing the offset.
func ConsumeNotifications(
	ctx context.Context,
	reader *kafkago.Reader,
	mailer notification.Mailer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.notifications")
	log.Info("notification consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("notification consumer stopped")
				return
			}
			log.Error("fetch notification message failed", zap.Error(err))
			continue
		}

		var event events.NotificationRequested
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode notification event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		subject, html, err := notification.Render(event.Kind, event.Context)
		if err != nil {
			log.Warn("unknown notification kind, dropping",
				zap.String("kind", event.Kind),
				zap.String("request_id", event.RequestID),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := mailer.Send(ctx, event.Recipient, subject, html); err != nil {
			log.Error("send notification email failed",
				zap.String("kind", event.Kind),
				zap.String("recipient", event.Recipient),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit notification message failed", zap.Error(err))
			continue
		}

		log.Info("notification email sent",
			zap.String("kind", event.Kind),
			zap.String("recipient", event.Recipient),
		)
	}
}
