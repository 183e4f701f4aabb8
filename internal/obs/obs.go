// Package obs holds the tracing helpers shared by the loader and the server.
// Spans go to the global otel provider; without one they are no-ops.
package obs

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/msalah0e/schemaview"

// Attribute keys used on schema spans.
const (
	SchemaName  = attribute.Key("schema.name")
	SchemaNodes = attribute.Key("schema.nodes")
	SchemaBytes = attribute.Key("schema.bytes")
)

// Tracer returns the schemaview tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// Recorder tracks one traced operation.
type Recorder struct {
	start time.Time
	span  trace.Span
}

// Start opens a span named name.
func Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, *Recorder) {
	ctx, span := Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, &Recorder{start: time.Now(), span: span}
}

// Add sets more attributes on the span.
func (r *Recorder) Add(attrs ...attribute.KeyValue) {
	if r == nil {
		return
	}
	r.span.SetAttributes(attrs...)
}

// End records err, if any, and closes the span. It returns the elapsed time.
func (r *Recorder) End(err error) time.Duration {
	if r == nil {
		return 0
	}
	if err != nil {
		r.span.RecordError(err)
		r.span.SetStatus(codes.Error, err.Error())
	}
	r.span.End()
	return time.Since(r.start)
}
