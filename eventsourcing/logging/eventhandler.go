package logging

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/terraskye/commerce/eventsourcing"
)

// WithEventLogging wraps an EventHandler so every handled event is logged
// with its stream position taken from the context, and handler errors are
// reported without being swallowed.
func WithEventLogging(logger *logrus.Entry, next eventsourcing.EventHandler) eventsourcing.EventHandler {
	return eventsourcing.NewEventHandlerFunc(func(ctx context.Context, event eventsourcing.Event) error {
		l := logger.WithFields(logrus.Fields{
			"stream-id": eventsourcing.StreamIDFromContext(ctx),
			"version":   eventsourcing.VersionFromContext(ctx),
			"event":     event.EventType(),
		})

		l.Debug("event processing started")

		err := next.Handle(ctx, event)
		if err != nil {
			l.WithError(err).Error("error processing event")
		} else {
			l.Debug("event processed successfully")
		}

		return err
	})
}
