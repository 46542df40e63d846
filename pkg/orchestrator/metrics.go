// SPDX-License-Identifier: Apache-2.0

package orchestrator

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	orchestratorMetricsOnce sync.Once
	turnCounter             metric.Int64Counter
	stepCounter             metric.Int64Counter
	toolCallCounter         metric.Int64Counter
	handoffCounter          metric.Int64Counter
	failedTurnCounter       metric.Int64Counter
	llmLatencyMs            metric.Float64Histogram
	toolLatencyMs           metric.Float64Histogram
)

func initOrchestratorMetrics() {
	orchestratorMetricsOnce.Do(func() {
		meter := otel.Meter("tally/orchestrator")
		turnCounter, _ = meter.Int64Counter("tally.orchestrator.turn.count")
		stepCounter, _ = meter.Int64Counter("tally.orchestrator.step.count")
		toolCallCounter, _ = meter.Int64Counter("tally.orchestrator.tool_call.count")
		handoffCounter, _ = meter.Int64Counter("tally.orchestrator.handoff.count")
		failedTurnCounter, _ = meter.Int64Counter("tally.orchestrator.turn.failed.count")
		llmLatencyMs, _ = meter.Float64Histogram("tally.orchestrator.llm.latency_ms")
		toolLatencyMs, _ = meter.Float64Histogram("tally.orchestrator.tool.latency_ms")
	})
}
