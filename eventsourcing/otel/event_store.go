package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/terraskye/commerce/eventsourcing"
)

var _ eventsourcing.EventStore = (*TelemetryStore)(nil)

// TelemetryStore decorates an EventStore with client spans around every
// operation, and stamps each saved envelope's metadata with the active trace
// ID so events can be correlated back to the command that produced them.
type TelemetryStore struct {
	next eventsourcing.EventStore
}

// WithStoreTelemetry wraps the given store.
func WithStoreTelemetry(next eventsourcing.EventStore) *TelemetryStore {
	return &TelemetryStore{next: next}
}

func (t *TelemetryStore) Save(ctx context.Context, events []eventsourcing.Envelope, revision eventsourcing.StreamState) (eventsourcing.AppendResult, error) {
	var streamID string
	if len(events) > 0 {
		streamID = events[0].StreamID
	}

	ctx, span := tracer.Start(ctx, "EventStore.Save",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			AttrOperation.String("save"),
			AttrStreamID.String(streamID),
			AttrRevision.String(fmt.Sprintf("%T", revision)),
		),
	)
	defer span.End()

	if span.SpanContext().HasTraceID() {
		traceID := span.SpanContext().TraceID().String()
		for i := range events {
			if events[i].Metadata == nil {
				events[i].Metadata = make(map[string]any)
			}
			events[i].Metadata["correlationId"] = traceID
		}
	}

	result, err := t.next.Save(ctx, events, revision)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}

	span.SetAttributes(AttrStreamVersion.Int64(int64(result.NextExpectedVersion)))
	span.SetStatus(codes.Ok, "")
	return result, nil
}

func (t *TelemetryStore) LoadStream(ctx context.Context, stream string) (*eventsourcing.Iterator[*eventsourcing.Envelope], error) {
	return t.load(ctx, stream, 0, t.next.LoadStream)
}

func (t *TelemetryStore) LoadStreamFrom(ctx context.Context, stream string, version uint64) (*eventsourcing.Iterator[*eventsourcing.Envelope], error) {
	return t.load(ctx, stream, version, func(ctx context.Context, s string) (*eventsourcing.Iterator[*eventsourcing.Envelope], error) {
		return t.next.LoadStreamFrom(ctx, s, version)
	})
}

func (t *TelemetryStore) load(
	ctx context.Context,
	stream string,
	version uint64,
	next func(ctx context.Context, stream string) (*eventsourcing.Iterator[*eventsourcing.Envelope], error),
) (*eventsourcing.Iterator[*eventsourcing.Envelope], error) {
	ctx, span := tracer.Start(ctx, "EventStore.Load",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			AttrOperation.String("load"),
			AttrStreamID.String(stream),
			AttrStreamVersion.Int64(int64(version)),
		),
	)
	defer span.End()

	it, err := next(ctx, stream)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetStatus(codes.Ok, "")
	return it, nil
}

func (t *TelemetryStore) Close() error {
	return t.next.Close()
}
