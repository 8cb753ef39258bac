package otel

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/terraskye/commerce/eventsourcing"
)

// WithCommandTelemetry wraps a CommandHandler with OpenTelemetry tracing and
// metrics: a span per command, duration and handled-count instruments, and a
// conflict counter when the append lost an optimistic-concurrency race.
//
// Metrics are only recorded when eventsourcing.Init has been called.
func WithCommandTelemetry[C eventsourcing.Command](next eventsourcing.CommandHandler[C]) eventsourcing.CommandHandler[C] {
	var zero C
	commandType := fmt.Sprintf("%T", zero)

	return func(ctx context.Context, cmd C) (eventsourcing.AppendResult, error) {
		ctx, span := tracer.Start(ctx, fmt.Sprintf("command.handle %s", commandType),
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(
				AttrCommandType.String(commandType),
				AttrAggregateID.String(cmd.AggregateID()),
			),
		)
		defer span.End()

		startTime := time.Now()
		result, err := next(ctx, cmd)

		span.SetAttributes(AttrStreamVersion.Int64(int64(result.NextExpectedVersion)))

		if eventsourcing.IsInitialized() {
			attrs := metric.WithAttributes(AttrCommandType.String(commandType))
			eventsourcing.CommandsDuration.Record(ctx,
				float64(time.Since(startTime).Milliseconds()), attrs)
			eventsourcing.CommandsHandled.Add(ctx, 1, attrs)
			if eventsourcing.IsConflict(err) {
				eventsourcing.ConcurrencyConflicts.Add(ctx, 1, attrs)
			}
		}

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return result, err
	}
}
