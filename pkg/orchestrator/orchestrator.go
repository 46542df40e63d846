// SPDX-License-Identifier: Apache-2.0

// Package orchestrator drives the delegation state machine: it routes a user
// turn across the specialist roles, executing tool calls and hand-offs until
// a final answer is produced or the step budget runs out.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/tallyhq/tally/pkg/core"
	"github.com/tallyhq/tally/pkg/errors"
	"github.com/tallyhq/tally/pkg/llm"
	"github.com/tallyhq/tally/pkg/role"
	"github.com/tallyhq/tally/pkg/session"
	"github.com/tallyhq/tally/pkg/telemetry"
	"github.com/tallyhq/tally/pkg/tool"
)

const (
	// DefaultMaxSteps bounds the generate/act loop of a single turn.
	DefaultMaxSteps = 25

	// DefaultFallback is returned to the caller when a turn fails.
	DefaultFallback = "I'm sorry, I couldn't process your request."
)

// Config assembles an Orchestrator. Provider, Catalog, Roles, and Sessions
// are required; the rest default.
type Config struct {
	Provider    llm.Provider
	Model       string
	Temperature float64
	Catalog     *tool.Catalog
	Roles       *role.Registry
	Sessions    *session.Store
	MaxSteps    int
	Fallback    string
	Emitter     core.EventEmitter
}

// Orchestrator owns session lifecycle and the per-turn delegation loop. It is
// safe for concurrent use; turns of the same session are serialized by the
// session store.
type Orchestrator struct {
	provider    llm.Provider
	model       string
	temperature float64
	catalog     *tool.Catalog
	roles       *role.Registry
	sessions    *session.Store
	maxSteps    int
	fallback    string
	emitter     core.EventEmitter
	errMetrics  *telemetry.ErrorMetrics
	tracer      trace.Tracer
}

// New validates the configuration and builds an Orchestrator. Missing
// collaborators are startup configuration errors, not per-request ones.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Provider == nil {
		return nil, errors.New(errors.CodeConfigError, "orchestrator requires a provider", nil)
	}
	if cfg.Catalog == nil {
		return nil, errors.New(errors.CodeConfigError, "orchestrator requires a tool catalog", nil)
	}
	if cfg.Roles == nil {
		return nil, errors.New(errors.CodeConfigError, "orchestrator requires a role registry", nil)
	}
	if cfg.Sessions == nil {
		return nil, errors.New(errors.CodeConfigError, "orchestrator requires a session store", nil)
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	if cfg.Fallback == "" {
		cfg.Fallback = DefaultFallback
	}
	if cfg.Emitter == nil {
		cfg.Emitter = core.NoopEventEmitter{}
	}
	errMetrics, err := telemetry.NewErrorMetrics()
	if err != nil {
		return nil, errors.New(errors.CodeConfigError, "error metrics initialization failed", err)
	}
	return &Orchestrator{
		provider:    cfg.Provider,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		catalog:     cfg.Catalog,
		roles:       cfg.Roles,
		sessions:    cfg.Sessions,
		maxSteps:    cfg.MaxSteps,
		fallback:    cfg.Fallback,
		emitter:     cfg.Emitter,
		errMetrics:  errMetrics,
		tracer:      otel.Tracer("tally/orchestrator"),
	}, nil
}

// Fallback returns the fixed answer used when a turn fails.
func (o *Orchestrator) Fallback() string { return o.fallback }

// Handle processes one user turn and returns the synthesized answer. On
// failure the answer is the fallback message and err carries the failure
// kind: STEP_BUDGET_EXCEEDED when the loop exhausts its budget, LLM_ERROR
// when the model backend fails, CONFIG_ERROR for registry bugs. History
// mutation is atomic per step: a step's messages are appended together or
// not at all, so cancellation never leaves a half-recorded step.
func (o *Orchestrator) Handle(ctx context.Context, sessionID, userMessage string) (string, error) {
	initOrchestratorMetrics()
	ctx, turnID := core.EnsureTurnID(ctx)

	sess, release, err := o.sessions.Acquire(ctx, sessionID)
	if err != nil {
		return "", errors.New(errors.CodeInternal, "session lock interrupted", err)
	}
	defer release()

	ctx, span := o.tracer.Start(ctx, "Orchestrator.Turn", trace.WithAttributes(
		telemetry.TurnAttributes(sessionID, turnID, sess.ActiveRole, o.maxSteps)...,
	))
	defer span.End()

	log := slog.Default()
	log.Info("orchestrator.turn.start",
		slog.String("session_id", sessionID),
		slog.String("turn_id", turnID),
		slog.String("active_role", sess.ActiveRole),
		slog.Int("history_len", len(sess.History)),
	)

	turnCounter.Add(ctx, 1)
	sess.Append(session.UserMessage(userMessage))

	for step := 1; step <= o.maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			o.sessions.Discard(sessionID)
			return "", errors.New(errors.CodeInternal, "turn cancelled", err)
		}

		current, err := o.roles.ForRole(sess.ActiveRole)
		if err != nil {
			// The registry is validated at startup, so this is an engine
			// bug, not model misbehavior.
			o.sessions.Discard(sessionID)
			return "", errors.New(errors.CodeConfigError,
				fmt.Sprintf("active role %q is not registered", sess.ActiveRole), err)
		}

		stepCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String(telemetry.AttrRole, current.Name),
		))

		resp, err := o.generate(ctx, current, sess, step)
		if err != nil {
			o.sessions.Discard(sessionID)
			failedTurnCounter.Add(ctx, 1)
			o.errMetrics.RecordError(ctx, err, "llm")
			return "", err
		}

		directive, err := Extract(resp)
		if err != nil {
			if te := errors.AsTallyError(err); te.Recoverable {
				// Malformed output is fed back so the model can correct it.
				sess.Append(session.UserMessage("Error: " + te.Message))
				o.errMetrics.RecordError(ctx, err, "extractor")
				o.errMetrics.RecordRecovery(ctx, te.Code)
				o.emitStepError(ctx, current.Name, sessionID, te.Message)
				continue
			}
			o.sessions.Discard(sessionID)
			failedTurnCounter.Add(ctx, 1)
			o.errMetrics.RecordError(ctx, err, "extractor")
			return "", err
		}

		switch directive.Kind {
		case DirectiveFinalAnswer:
			sess.Append(session.AssistantMessage(directive.Answer))
			o.emitter.Emit(ctx, core.NewEvent(core.EventFinalAnswer, current.Name, sessionID, map[string]any{
				"step": step,
			}))
			retained := sess.ActiveRole == o.roles.Root()
			if !retained {
				o.sessions.Discard(sessionID)
			}
			log.Info("orchestrator.turn.done",
				slog.String("session_id", sessionID),
				slog.String("turn_id", turnID),
				slog.Int("steps", step),
				slog.Bool("session_retained", retained),
			)
			return directive.Answer, nil

		case DirectiveToolRequest:
			o.executeTool(ctx, current, sess, directive, step)

		case DirectiveHandoff:
			o.executeHandoff(ctx, current, sess, directive, step)
		}
	}

	o.sessions.Discard(sessionID)
	failedTurnCounter.Add(ctx, 1)
	log.Warn("orchestrator.turn.budget_exceeded",
		slog.String("session_id", sessionID),
		slog.String("turn_id", turnID),
		slog.Int("max_steps", o.maxSteps),
	)
	budgetErr := errors.New(errors.CodeStepBudgetExceeded,
		fmt.Sprintf("turn did not finish within %d steps", o.maxSteps), nil).
		WithContext("session_id", sessionID)
	o.errMetrics.RecordError(ctx, budgetErr, "orchestrator")
	return o.fallback, budgetErr
}

// generate invokes the model for the active role with its instructions, its
// tool subset, the hand-off tool, and the full history.
func (o *Orchestrator) generate(ctx context.Context, current role.Role, sess *session.Session, step int) (*llm.ChatResponse, error) {
	messages := make([]llm.Message, 0, len(sess.History)+1)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: current.Instructions})
	messages = append(messages, sess.LLMMessages()...)

	tools := o.catalog.Definitions(current.Tools)
	if len(current.HandoffTargets) > 0 {
		tools = append(tools, HandoffTool(current.HandoffTargets))
	}

	start := time.Now()
	llmCtx, llmSpan := o.tracer.Start(ctx, "Orchestrator.LLM.Chat", trace.WithAttributes(
		telemetry.StepAttributes(current.Name, step)...,
	))
	llmSpan.SetAttributes(telemetry.LLMAttributes(o.model, "", len(messages), 0)...)
	resp, err := o.provider.Chat(llmCtx, llm.ChatRequest{
		Model:       o.model,
		Messages:    messages,
		Tools:       tools,
		Temperature: o.temperature,
	})
	if resp != nil {
		llmSpan.SetAttributes(telemetry.LLMUsageAttributes(resp.Usage.PromptTokens, resp.Usage.CompletionTokens)...)
	}
	llmSpan.End()
	llmLatencyMs.Record(ctx, time.Since(start).Seconds()*1000)

	if err != nil {
		return nil, errors.New(errors.CodeLLMError, "model backend failed", err).
			WithContext("role", current.Name)
	}
	return resp, nil
}

// executeTool runs one tool request. Unauthorized or failing calls become
// tool-result error strings so the model can self-correct; the step's
// assistant message and its result always land in history together.
func (o *Orchestrator) executeTool(ctx context.Context, current role.Role, sess *session.Session, directive Directive, step int) {
	call := directive.Call
	if call.ID == "" {
		call.ID = uuid.New().String()
	}
	name := call.Function.Name

	if !current.HasTool(name) {
		msg := fmt.Sprintf("Error: tool %q is not available to the %s agent.", name, current.Name)
		sess.Append(
			session.AssistantMessage("", call),
			session.ToolMessage(call.ID, msg),
		)
		o.emitStepError(ctx, current.Name, sess.ID, msg)
		return
	}

	o.emitter.Emit(ctx, core.NewEvent(core.EventToolCall, current.Name, sess.ID, map[string]any{
		"tool": name,
		"step": step,
	}))

	start := time.Now()
	toolCtx, toolSpan := o.tracer.Start(ctx, "Orchestrator.Tool.Call")
	result, err := o.catalog.Invoke(toolCtx, name, directive.Args)
	durationMs := time.Since(start).Seconds() * 1000
	toolSpan.SetAttributes(telemetry.ToolCallAttributes(name, call.ID, durationMs, err == nil)...)
	toolSpan.End()
	toolCallCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String(telemetry.AttrToolName, name),
		attribute.Bool(telemetry.AttrToolSuccess, err == nil),
	))
	toolLatencyMs.Record(ctx, durationMs, metric.WithAttributes(
		attribute.String(telemetry.AttrToolName, name),
	))

	var content string
	if err != nil {
		// Failures at this layer are recoverable in conversation; the core
		// does not distinguish transient from permanent.
		te := errors.AsTallyError(err)
		content = "Error: " + te.Message
		o.errMetrics.RecordError(ctx, err, "tool")
		o.errMetrics.RecordRecovery(ctx, te.Code)
	} else {
		content = toolResultContent(result)
	}

	sess.Append(
		session.AssistantMessage("", call),
		session.ToolMessage(call.ID, content),
	)
	o.emitter.Emit(ctx, core.NewEvent(core.EventToolResult, current.Name, sess.ID, map[string]any{
		"tool": name,
		"step": step,
		"ok":   err == nil,
	}))
}

// executeHandoff applies one delegation request. Illegal targets leave the
// active role unchanged and record an error note, giving the model a chance
// to recover.
func (o *Orchestrator) executeHandoff(ctx context.Context, current role.Role, sess *session.Session, directive Directive, step int) {
	call := directive.Call
	if call.ID == "" {
		call.ID = uuid.New().String()
	}
	target := directive.Target

	if !current.CanHandoffTo(target) {
		msg := fmt.Sprintf("Error: the %s agent cannot transfer to %q.", current.Name, target)
		sess.Append(
			session.AssistantMessage("", call),
			session.ToolMessage(call.ID, msg),
		)
		o.emitStepError(ctx, current.Name, sess.ID, msg)
		return
	}

	sess.Append(
		session.AssistantMessage("", call),
		session.ToolMessage(call.ID, fmt.Sprintf("Transferred to the %s agent.", target)),
	)
	sess.ActiveRole = target
	handoffCounter.Add(ctx, 1, metric.WithAttributes(
		telemetry.HandoffAttributes(current.Name, target)...,
	))
	o.emitter.Emit(ctx, core.NewEvent(core.EventRoleSwitch, current.Name, sess.ID, map[string]any{
		"from": current.Name,
		"to":   target,
		"step": step,
	}))
	slog.Default().Debug("orchestrator.handoff",
		slog.String("session_id", sess.ID),
		slog.String("from", current.Name),
		slog.String("to", target),
	)
}

func (o *Orchestrator) emitStepError(ctx context.Context, roleName, sessionID, msg string) {
	o.emitter.Emit(ctx, core.NewEvent(core.EventStepError, roleName, sessionID, map[string]any{
		"error": msg,
	}))
}

// toolResultContent renders a tool result for the history. Strings pass
// through, structured results are serialized as JSON.
func toolResultContent(result any) string {
	switch v := result.(type) {
	case nil:
		return "null"
	case string:
		return v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
