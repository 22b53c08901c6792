// Package observability wires OpenTelemetry tracing and metrics for the
// request pipeline.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("chimney"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanHTTPRequest)
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("chimney"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("chimney"))
//	metrics.RecordRequestEnd(ctx, "GET", "api.example.com", "200", duration)
//
// Setup starts both from a Config section and returns them for shutdown.
package observability
