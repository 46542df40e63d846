package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/tallyhq/tally/pkg/errors"
)

func findCounter(t *testing.T, rm metricdata.ResourceMetrics, name string) metricdata.Sum[int64] {
	t.Helper()
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name == name {
				sum, ok := m.Data.(metricdata.Sum[int64])
				if !ok {
					t.Fatalf("metric %s has unexpected data type %T", name, m.Data)
				}
				return sum
			}
		}
	}
	t.Fatalf("metric %s not recorded", name)
	return metricdata.Sum[int64]{}
}

func TestErrorMetricsRecordsErrorAndRecovery(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)
	defer provider.Shutdown(context.Background())

	em, err := NewErrorMetrics()
	if err != nil {
		t.Fatalf("NewErrorMetrics failed: %v", err)
	}

	ctx := context.Background()
	toolErr := errors.New(errors.CodeInvalidInput, "missing required argument", nil).
		WithRecoverable(true)
	em.RecordError(ctx, toolErr, "tool")
	em.RecordRecovery(ctx, errors.CodeInvalidInput)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect failed: %v", err)
	}

	total := findCounter(t, rm, "tally.errors.total")
	if len(total.DataPoints) != 1 || total.DataPoints[0].Value != 1 {
		t.Fatalf("unexpected error datapoints: %+v", total.DataPoints)
	}
	attrs := total.DataPoints[0].Attributes
	if v, ok := attrs.Value(attribute.Key("error.code")); !ok || v.AsString() != "INVALID_INPUT" {
		t.Errorf("error.code attribute = %v", v)
	}
	if v, ok := attrs.Value(attribute.Key("component")); !ok || v.AsString() != "tool" {
		t.Errorf("component attribute = %v", v)
	}
	if v, ok := attrs.Value(attribute.Key("recoverable")); !ok || v.AsString() != "true" {
		t.Errorf("recoverable attribute = %v", v)
	}

	recovered := findCounter(t, rm, "tally.errors.recovered")
	if len(recovered.DataPoints) != 1 || recovered.DataPoints[0].Value != 1 {
		t.Fatalf("unexpected recovery datapoints: %+v", recovered.DataPoints)
	}
}

func TestErrorMetricsNilSafe(t *testing.T) {
	var em *ErrorMetrics
	em.RecordError(context.Background(), errors.New(errors.CodeInternal, "x", nil), "core")
	em.RecordRecovery(context.Background(), errors.CodeInternal)

	em2, err := NewErrorMetrics()
	if err != nil {
		t.Fatalf("NewErrorMetrics failed: %v", err)
	}
	em2.RecordError(context.Background(), nil, "core")
}
