package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/terraskye/commerce/eventsourcing/otel"

var tracer trace.Tracer = otel.Tracer(instrumentationName)

// Attribute keys shared by the telemetry decorators.
var (
	AttrCommandType   = attribute.Key("commerce.command.type")
	AttrAggregateID   = attribute.Key("commerce.aggregate.id")
	AttrStreamID      = attribute.Key("commerce.stream.id")
	AttrStreamVersion = attribute.Key("commerce.stream.version")
	AttrOperation     = attribute.Key("commerce.store.operation")
	AttrRevision      = attribute.Key("commerce.store.revision")
)
