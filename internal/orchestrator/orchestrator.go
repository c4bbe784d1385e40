// Package orchestrator drives the multi-step generation loop: stream a
// completion, execute any tool calls the model requested, feed the
// results back, repeat until the model answers in text or the step
// ceiling trips.
package orchestrator

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/animekun/chatd/internal/infrastructure/logging"
	"github.com/animekun/chatd/internal/infrastructure/monitoring"
	"github.com/animekun/chatd/internal/llm"
	"github.com/animekun/chatd/internal/shared/types"
	"github.com/animekun/chatd/internal/tools"
)

// Config defines generation loop behavior.
type Config struct {
	SystemPrompt string
	Temperature  float64

	// MaxSteps bounds the number of model round-trips per request.
	MaxSteps int

	// MaxDuration is the wall-clock ceiling for the whole loop.
	MaxDuration time.Duration
}

// Event is one increment of a generation. Text carries a streamed
// delta; Err is set at most once, on the terminal event.
type Event struct {
	Text string
	Err  error
}

// Orchestrator runs conversations against a model provider and a tool
// registry.
type Orchestrator struct {
	provider llm.Provider
	registry *tools.Registry
	logger   *logging.Logger
	metrics  *monitoring.Metrics
	cfg      Config
}

// New creates an orchestrator. metrics may be nil.
func New(provider llm.Provider, registry *tools.Registry, logger *logging.Logger, metrics *monitoring.Metrics, cfg Config) *Orchestrator {
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = 5
	}
	if cfg.MaxDuration <= 0 {
		cfg.MaxDuration = 30 * time.Second
	}
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Orchestrator{
		provider: provider,
		registry: registry,
		logger:   logger,
		metrics:  metrics,
		cfg:      cfg,
	}
}

// Run streams a conversation turn. The returned channel carries text
// deltas as the model produces them and closes when the turn is done;
// a stream that cannot even start is reported as an error return so
// the caller can classify it before committing to a response.
func (o *Orchestrator) Run(ctx context.Context, messages []llm.Message, reqCtx *types.Context) (<-chan Event, error) {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.MaxDuration)

	req := llm.CompletionRequest{
		SystemPrompt: o.cfg.SystemPrompt,
		Messages:     messages,
		Tools:        o.registry.Definitions(),
		Temperature:  o.cfg.Temperature,
	}

	stream, err := o.provider.StreamCompletion(ctx, req)
	if err != nil {
		cancel()
		return nil, err
	}

	out := make(chan Event, 32)
	go func() {
		defer close(out)
		defer cancel()

		start := time.Now()
		convo := messages
		steps := 0
		toolsRan := false
		var finalText strings.Builder

		for {
			steps++
			finalText.Reset()

			var calls []llm.ToolCall
			finish := llm.FinishStop

			for chunk := range stream {
				if chunk.Text != "" && chunk.FinishReason != llm.FinishError {
					finalText.WriteString(chunk.Text)
					select {
					case out <- Event{Text: chunk.Text}:
					case <-ctx.Done():
						return
					}
				}
				if len(chunk.ToolCalls) > 0 {
					calls = chunk.ToolCalls
				}
				if chunk.FinishReason == llm.FinishError {
					o.logger.Error("model stream failed", zap.String("detail", chunk.Text), zap.Int("step", steps))
					select {
					case out <- Event{Err: &StreamError{Detail: chunk.Text}}:
					case <-ctx.Done():
					}
					return
				}
				if chunk.FinishReason != "" {
					finish = chunk.FinishReason
				}
			}

			if finish != llm.FinishToolCalls || len(calls) == 0 {
				break
			}
			toolsRan = true

			if steps >= o.cfg.MaxSteps {
				o.logger.Warn("generation loop hit step ceiling",
					zap.Int("max_steps", o.cfg.MaxSteps),
					zap.Int("pending_calls", len(calls)))
				if o.metrics != nil {
					o.metrics.StepCeilingHits.Inc()
				}
				break
			}

			convo = append(convo, assistantMessage(finalText.String(), calls))
			convo = append(convo, o.executeBatch(ctx, calls, reqCtx)...)

			req.Messages = convo
			stream, err = o.provider.StreamCompletion(ctx, req)
			if err != nil {
				o.logger.Error("model stream failed", zap.Error(err), zap.Int("step", steps))
				select {
				case out <- Event{Err: err}:
				case <-ctx.Done():
				}
				return
			}
		}

		if o.metrics != nil {
			o.metrics.GenerationSteps.Observe(float64(steps))
			o.metrics.GenerationDuration.Observe(time.Since(start).Seconds())
		}

		if toolsRan && violatesFormat(finalText.String()) {
			o.logger.Warn("final response violates formatting contract",
				zap.Int("steps", steps),
				zap.Int("length", finalText.Len()))
			if o.metrics != nil {
				o.metrics.FormatViolations.Inc()
			}
		}
	}()

	return out, nil
}

// executeBatch runs one step's tool calls concurrently and returns the
// tool messages in call order, matched by call ID.
func (o *Orchestrator) executeBatch(ctx context.Context, calls []llm.ToolCall, reqCtx *types.Context) []llm.Message {
	results := make(map[string]*types.Result, len(calls))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, call := range calls {
		wg.Add(1)
		go func(call llm.ToolCall) {
			defer wg.Done()
			result := o.executeOne(ctx, call, reqCtx)
			mu.Lock()
			results[call.ID] = result
			mu.Unlock()
		}(call)
	}
	wg.Wait()

	messages := make([]llm.Message, 0, len(calls))
	for _, call := range calls {
		content, err := json.Marshal(results[call.ID])
		if err != nil {
			content = []byte(`{"success":false,"error":"result serialization failed"}`)
		}
		messages = append(messages, llm.Message{
			Role:       "tool",
			ToolCallID: call.ID,
			Content:    string(content),
		})
	}
	return messages
}

func (o *Orchestrator) executeOne(ctx context.Context, call llm.ToolCall, reqCtx *types.Context) *types.Result {
	toolID := tools.CanonicalID(call.Name)
	start := time.Now()

	params := map[string]interface{}{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &params); err != nil {
			msg := "invalid tool arguments: " + err.Error()
			o.logger.Warn("tool call carried malformed arguments",
				zap.String("tool", toolID), zap.Error(err))
			if o.metrics != nil {
				o.metrics.RecordTool(toolID, false, time.Since(start))
			}
			return &types.Result{Success: false, Error: &msg}
		}
	}

	result, err := o.registry.Execute(ctx, toolID, params, reqCtx)
	if err != nil {
		msg := err.Error()
		result = &types.Result{Success: false, Error: &msg}
	}

	o.logger.Info("tool executed",
		zap.String("tool", toolID),
		zap.Bool("success", result.Success),
		zap.Duration("duration", time.Since(start)))
	if o.metrics != nil {
		o.metrics.RecordTool(toolID, result.Success, time.Since(start))
	}
	return result
}

func assistantMessage(text string, calls []llm.ToolCall) llm.Message {
	return llm.Message{
		Role:      "assistant",
		Content:   text,
		ToolCalls: calls,
	}
}

// violatesFormat reports whether a final answer still looks like a raw
// result envelope instead of prose.
func violatesFormat(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return true
	}
	return strings.HasPrefix(trimmed, "{") && strings.Contains(trimmed, `"success"`)
}

// StreamError is a model-side failure surfaced mid-stream.
type StreamError struct {
	Detail string
}

func (e *StreamError) Error() string {
	return e.Detail
}
