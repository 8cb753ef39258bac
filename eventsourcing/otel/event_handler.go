package otel

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/terraskye/commerce/eventsourcing"
)

// WithEventTelemetry wraps an EventHandler with a consumer span per handled
// event, carrying the stream position from the envelope context. Skipped
// events end the span cleanly without recording an error.
func WithEventTelemetry(next eventsourcing.EventHandler) eventsourcing.EventHandler {
	return eventsourcing.NewEventHandlerFunc(func(ctx context.Context, event eventsourcing.Event) error {
		ctx, span := tracer.Start(ctx, fmt.Sprintf("event.handle %s", event.EventType()),
			trace.WithSpanKind(trace.SpanKindConsumer),
			trace.WithAttributes(
				AttrStreamID.String(eventsourcing.StreamIDFromContext(ctx)),
				AttrStreamVersion.Int64(int64(eventsourcing.VersionFromContext(ctx))),
			),
		)
		defer span.End()

		err := next.Handle(ctx, event)
		if err != nil {
			var skipped *eventsourcing.ErrSkippedEvent
			if errors.As(err, &skipped) {
				span.SetStatus(codes.Ok, "")
				return err
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}

		span.SetStatus(codes.Ok, "")
		return nil
	})
}
