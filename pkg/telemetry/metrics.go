// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"strconv"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/tallyhq/tally/pkg/errors"
)

// ErrorMetrics tracks error rates and recovery patterns for monitoring.
type ErrorMetrics struct {
	// errorCounter tracks total errors by code and component
	errorCounter metric.Int64Counter

	// recoveryCounter tracks in-conversation recoveries
	recoveryCounter metric.Int64Counter

	mu sync.RWMutex
}

// NewErrorMetrics creates an error metrics tracker with OTEL meters.
func NewErrorMetrics() (*ErrorMetrics, error) {
	meter := otel.Meter("tally/errors")

	errorCounter, err := meter.Int64Counter(
		"tally.errors.total",
		metric.WithDescription("Total errors by code and component"),
	)
	if err != nil {
		return nil, err
	}

	recoveryCounter, err := meter.Int64Counter(
		"tally.errors.recovered",
		metric.WithDescription("Errors recovered in conversation by code"),
	)
	if err != nil {
		return nil, err
	}

	return &ErrorMetrics{
		errorCounter:    errorCounter,
		recoveryCounter: recoveryCounter,
	}, nil
}

// RecordError increments the error counter for the given error and component.
func (em *ErrorMetrics) RecordError(ctx context.Context, err error, component string) {
	if em == nil || err == nil {
		return
	}

	em.mu.RLock()
	defer em.mu.RUnlock()

	te := errors.AsTallyError(err)
	em.errorCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("error.code", string(te.Code)),
			attribute.String("component", component),
			attribute.String("recoverable", strconv.FormatBool(te.Recoverable)),
		),
	)
}

// RecordRecovery increments the recovery counter for the given error code.
// Called when an error was surfaced into the conversation and the turn still
// produced an answer.
func (em *ErrorMetrics) RecordRecovery(ctx context.Context, code errors.ErrorCode) {
	if em == nil {
		return
	}

	em.mu.RLock()
	defer em.mu.RUnlock()

	em.recoveryCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("error.code", string(code)),
		),
	)
}
