// Package openai provides an llm.Provider backed by any
// chat-completions compatible API, including the Gemini compatibility
// endpoint the gateway targets by default.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"

	"github.com/animekun/chatd/internal/llm"
)

// Provider implements llm.Provider using the openai-go SDK.
type Provider struct {
	client oai.Client
	model  string
}

type config struct {
	baseURL string
	timeout time.Duration
}

// Option is a functional option for Provider.
type Option func(*config)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// WithTimeout sets a per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// New constructs a Provider for the given credential and model name.
func New(apiKey, model string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: apiKey must not be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("openai: model must not be empty")
	}

	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{
			Timeout: cfg.timeout,
		}))
	}

	return &Provider{client: oai.NewClient(reqOpts...), model: model}, nil
}

// StreamCompletion implements llm.Provider. The compatibility endpoint
// splits tool calls into fragments across deltas; an assembler stitches
// them back together so the terminal chunk carries the complete set.
func (p *Provider) StreamCompletion(ctx context.Context, req llm.CompletionRequest) (<-chan llm.Chunk, error) {
	params, err := p.buildParams(req)
	if err != nil {
		return nil, fmt.Errorf("openai: build params: %w", err)
	}

	stream := p.client.Chat.Completions.NewStreaming(ctx, params)
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("openai: start stream: %w", err)
	}

	ch := make(chan llm.Chunk, 32)
	go func() {
		defer close(ch)
		defer stream.Close()

		var asm callAssembler
		for stream.Next() {
			out, ok := asm.translate(stream.Current())
			if !ok {
				continue
			}
			select {
			case ch <- out:
			case <-ctx.Done():
				return
			}
		}

		if err := stream.Err(); err != nil {
			select {
			case ch <- llm.Chunk{FinishReason: llm.FinishError, Text: err.Error()}:
			case <-ctx.Done():
			}
		}
	}()

	return ch, nil
}

// callAssembler reassembles tool calls from stream fragments, keyed by
// the index the endpoint assigns each call. ID, name and argument text
// may each arrive in a different delta of the same call.
type callAssembler struct {
	calls map[int]*llm.ToolCall
}

func (a *callAssembler) translate(chunk oai.ChatCompletionChunk) (llm.Chunk, bool) {
	if len(chunk.Choices) == 0 {
		return llm.Chunk{}, false
	}
	choice := chunk.Choices[0]

	for _, frag := range choice.Delta.ToolCalls {
		if a.calls == nil {
			a.calls = map[int]*llm.ToolCall{}
		}
		call := a.calls[int(frag.Index)]
		if call == nil {
			call = &llm.ToolCall{}
			a.calls[int(frag.Index)] = call
		}
		if frag.ID != "" {
			call.ID = frag.ID
		}
		if frag.Function.Name != "" {
			call.Name = frag.Function.Name
		}
		call.Arguments += frag.Function.Arguments
	}

	out := llm.Chunk{
		Text:         choice.Delta.Content,
		FinishReason: choice.FinishReason,
	}
	if choice.FinishReason != "" && len(a.calls) > 0 {
		out.ToolCalls = a.assembled()
		out.FinishReason = llm.FinishToolCalls
	}
	return out, true
}

func (a *callAssembler) assembled() []llm.ToolCall {
	out := make([]llm.ToolCall, 0, len(a.calls))
	for i := 0; i < len(a.calls); i++ {
		if call, ok := a.calls[i]; ok {
			out = append(out, *call)
		}
	}
	return out
}

func (p *Provider) buildParams(req llm.CompletionRequest) (oai.ChatCompletionNewParams, error) {
	var messages []oai.ChatCompletionMessageParamUnion

	if req.SystemPrompt != "" {
		messages = append(messages, oai.SystemMessage(req.SystemPrompt))
	}

	for _, m := range req.Messages {
		msg, err := convertMessage(m)
		if err != nil {
			return oai.ChatCompletionNewParams{}, err
		}
		messages = append(messages, msg)
	}

	params := oai.ChatCompletionNewParams{
		Model:    shared.ChatModel(p.model),
		Messages: messages,
	}

	if req.Temperature != 0 {
		params.Temperature = param.NewOpt(req.Temperature)
	}

	for _, td := range req.Tools {
		params.Tools = append(params.Tools, oai.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        td.Name,
				Description: param.NewOpt(td.Description),
				Parameters:  shared.FunctionParameters(td.Parameters),
			},
		})
	}

	return params, nil
}

func convertMessage(m llm.Message) (oai.ChatCompletionMessageParamUnion, error) {
	switch m.Role {
	case "system":
		return oai.SystemMessage(m.Content), nil

	case "user":
		return oai.UserMessage(m.Content), nil

	case "assistant":
		asst := oai.ChatCompletionAssistantMessageParam{}
		if m.Content != "" {
			asst.Content.OfString = oai.String(m.Content)
		}
		for _, tc := range m.ToolCalls {
			asst.ToolCalls = append(asst.ToolCalls, oai.ChatCompletionMessageToolCallParam{
				ID: tc.ID,
				Function: oai.ChatCompletionMessageToolCallFunctionParam{
					Name:      tc.Name,
					Arguments: tc.Arguments,
				},
			})
		}
		return oai.ChatCompletionMessageParamUnion{OfAssistant: &asst}, nil

	case "tool":
		return oai.ToolMessage(m.Content, m.ToolCallID), nil

	default:
		return oai.ChatCompletionMessageParamUnion{}, fmt.Errorf("openai: unknown message role %q", m.Role)
	}
}
