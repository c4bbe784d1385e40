package orchestrator

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animekun/chatd/internal/llm"
	"github.com/animekun/chatd/internal/llm/mock"
	"github.com/animekun/chatd/internal/schema"
	"github.com/animekun/chatd/internal/shared/types"
	"github.com/animekun/chatd/internal/tools"
)

type echoProvider struct{}

func (echoProvider) Definition() types.Service {
	return types.Service{
		ID:       "anime",
		Name:     "Echo",
		Category: types.CategoryAnime,
		Tools: []types.Tool{
			{
				ID:   "anime.get",
				Name: "Get",
				Parameters: []types.Parameter{
					schema.IDField("id", "Record ID"),
				},
			},
		},
	}
}

func (echoProvider) Execute(ctx context.Context, toolID string, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	return &types.Result{
		Success: true,
		Data:    map[string]interface{}{"echo": params["id"]},
	}, nil
}

func newRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	registry := tools.NewRegistry()
	require.NoError(t, registry.Register(echoProvider{}))
	return registry
}

func collect(t *testing.T, events <-chan Event) (string, error) {
	t.Helper()
	var b strings.Builder
	for event := range events {
		if event.Err != nil {
			return b.String(), event.Err
		}
		b.WriteString(event.Text)
	}
	return b.String(), nil
}

func userMessage(content string) []llm.Message {
	return []llm.Message{{Role: "user", Content: content}}
}

func TestRunPlainAnswer(t *testing.T) {
	provider := mock.New([]llm.Chunk{
		{Text: "Bonjour "},
		{Text: "!", FinishReason: llm.FinishStop},
	})
	orch := New(provider, newRegistry(t), nil, nil, Config{})

	events, err := orch.Run(context.Background(), userMessage("salut"), nil)
	require.NoError(t, err)

	text, streamErr := collect(t, events)
	require.NoError(t, streamErr)
	assert.Equal(t, "Bonjour !", text)
	assert.Equal(t, 1, provider.Calls())
}

func TestRunToolStepThenAnswer(t *testing.T) {
	provider := mock.New(
		[]llm.Chunk{
			{ToolCalls: []llm.ToolCall{
				{ID: "call_1", Name: "anime_get", Arguments: `{"id": 7}`},
			}, FinishReason: llm.FinishToolCalls},
		},
		[]llm.Chunk{
			{Text: "Voici l'anime 7.", FinishReason: llm.FinishStop},
		},
	)
	orch := New(provider, newRegistry(t), nil, nil, Config{})

	events, err := orch.Run(context.Background(), userMessage("anime 7"), &types.Context{AuthToken: "tok"})
	require.NoError(t, err)

	text, streamErr := collect(t, events)
	require.NoError(t, streamErr)
	assert.Equal(t, "Voici l'anime 7.", text)
	require.Equal(t, 2, provider.Calls())

	// Second request carries the assistant tool-call turn plus the tool
	// result matched by call ID.
	second := provider.Requests[1]
	require.Len(t, second.Messages, 3)
	assert.Equal(t, "assistant", second.Messages[1].Role)
	require.Len(t, second.Messages[1].ToolCalls, 1)

	toolMsg := second.Messages[2]
	assert.Equal(t, "tool", toolMsg.Role)
	assert.Equal(t, "call_1", toolMsg.ToolCallID)

	var result types.Result
	require.NoError(t, json.Unmarshal([]byte(toolMsg.Content), &result))
	assert.True(t, result.Success)
	assert.EqualValues(t, 7, result.Data["echo"])
}

func TestRunMatchesResultsByCallID(t *testing.T) {
	provider := mock.New(
		[]llm.Chunk{
			{ToolCalls: []llm.ToolCall{
				{ID: "call_a", Name: "anime_get", Arguments: `{"id": 1}`},
				{ID: "call_b", Name: "anime_get", Arguments: `{"id": 2}`},
			}, FinishReason: llm.FinishToolCalls},
		},
		[]llm.Chunk{
			{Text: "ok", FinishReason: llm.FinishStop},
		},
	)
	orch := New(provider, newRegistry(t), nil, nil, Config{})

	events, err := orch.Run(context.Background(), userMessage("deux animes"), nil)
	require.NoError(t, err)
	_, streamErr := collect(t, events)
	require.NoError(t, streamErr)

	second := provider.Requests[1]
	require.Len(t, second.Messages, 4)

	byID := map[string]float64{}
	for _, m := range second.Messages[2:] {
		require.Equal(t, "tool", m.Role)
		var result types.Result
		require.NoError(t, json.Unmarshal([]byte(m.Content), &result))
		byID[m.ToolCallID] = result.Data["echo"].(float64)
	}
	assert.Equal(t, float64(1), byID["call_a"])
	assert.Equal(t, float64(2), byID["call_b"])
}

func TestRunStepCeiling(t *testing.T) {
	loop := []llm.Chunk{
		{ToolCalls: []llm.ToolCall{
			{ID: "call_1", Name: "anime_get", Arguments: `{"id": 1}`},
		}, FinishReason: llm.FinishToolCalls},
	}
	provider := mock.New(loop, loop, loop, loop, loop)
	orch := New(provider, newRegistry(t), nil, nil, Config{MaxSteps: 3})

	events, err := orch.Run(context.Background(), userMessage("boucle"), nil)
	require.NoError(t, err)
	_, streamErr := collect(t, events)
	require.NoError(t, streamErr)

	assert.Equal(t, 3, provider.Calls(), "loop must stop at the step ceiling")
}

func TestRunInvalidArgumentsBecomeFailedResult(t *testing.T) {
	provider := mock.New(
		[]llm.Chunk{
			{ToolCalls: []llm.ToolCall{
				{ID: "call_1", Name: "anime_get", Arguments: `{not json`},
			}, FinishReason: llm.FinishToolCalls},
		},
		[]llm.Chunk{
			{Text: "désolé", FinishReason: llm.FinishStop},
		},
	)
	orch := New(provider, newRegistry(t), nil, nil, Config{})

	events, err := orch.Run(context.Background(), userMessage("x"), nil)
	require.NoError(t, err)
	_, streamErr := collect(t, events)
	require.NoError(t, streamErr)

	toolMsg := provider.Requests[1].Messages[2]
	var result types.Result
	require.NoError(t, json.Unmarshal([]byte(toolMsg.Content), &result))
	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Contains(t, *result.Error, "invalid tool arguments")
}

func TestRunReleasesGoroutineAfterCancel(t *testing.T) {
	// Fill the event buffer exactly, then fail the stream: the error
	// send has nowhere to go once the reader is gone, and must yield
	// to cancellation instead of blocking forever.
	script := make([]llm.Chunk, 0, 33)
	for i := 0; i < 32; i++ {
		script = append(script, llm.Chunk{Text: "x"})
	}
	script = append(script, llm.Chunk{Text: "RESOURCE_EXHAUSTED: quota", FinishReason: llm.FinishError})

	provider := mock.New(script)
	orch := New(provider, newRegistry(t), nil, nil, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	events, err := orch.Run(ctx, userMessage("x"), nil)
	require.NoError(t, err)

	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("event channel never closed after cancellation")
		}
	}
}

func TestRunStreamErrorSurfaces(t *testing.T) {
	provider := mock.New([]llm.Chunk{
		{Text: "RESOURCE_EXHAUSTED: quota", FinishReason: llm.FinishError},
	})
	orch := New(provider, newRegistry(t), nil, nil, Config{})

	events, err := orch.Run(context.Background(), userMessage("x"), nil)
	require.NoError(t, err)

	_, streamErr := collect(t, events)
	require.Error(t, streamErr)
	assert.Contains(t, streamErr.Error(), "RESOURCE_EXHAUSTED")
}
