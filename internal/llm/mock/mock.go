// Package mock provides a scripted llm.Provider for tests.
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/animekun/chatd/internal/llm"
)

// Provider replays scripted chunk sequences, one script per call, and
// records every request it receives.
type Provider struct {
	mu       sync.Mutex
	scripts  [][]llm.Chunk
	call     int
	Requests []llm.CompletionRequest
}

// New creates a Provider that replays the given scripts in order.
func New(scripts ...[]llm.Chunk) *Provider {
	return &Provider{scripts: scripts}
}

// StreamCompletion implements llm.Provider.
func (p *Provider) StreamCompletion(ctx context.Context, req llm.CompletionRequest) (<-chan llm.Chunk, error) {
	p.mu.Lock()
	p.Requests = append(p.Requests, req)
	if p.call >= len(p.scripts) {
		p.mu.Unlock()
		return nil, fmt.Errorf("mock: no script for call %d", p.call)
	}
	script := p.scripts[p.call]
	p.call++
	p.mu.Unlock()

	ch := make(chan llm.Chunk, len(script))
	for _, c := range script {
		ch <- c
	}
	close(ch)
	return ch, nil
}

// Calls returns how many completion requests were issued.
func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.call
}
