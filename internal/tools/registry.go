// Package tools manages the catalog of model-invocable operations.
//
// Providers register under a short ID ("anime", "season", ...) and
// expose tools keyed "provider.tool". The model sees the same catalog
// as flat function definitions; arguments are validated against the
// tool's parameter schema before any network call happens.
package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/animekun/chatd/internal/llm"
	"github.com/animekun/chatd/internal/schema"
	"github.com/animekun/chatd/internal/shared/types"
)

// Provider interface for tool catalog implementations
type Provider interface {
	Definition() types.Service
	Execute(ctx context.Context, toolID string, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error)
}

// Registry manages tool discovery, validation and execution
type Registry struct {
	services sync.Map
}

// NewRegistry creates a new tool registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a tool provider
func (r *Registry) Register(provider Provider) error {
	def := provider.Definition()
	if def.ID == "" {
		return fmt.Errorf("provider ID cannot be empty")
	}
	if strings.ContainsAny(def.ID, "._") {
		return fmt.Errorf("provider ID %q must not contain separators", def.ID)
	}
	r.services.Store(def.ID, provider)
	return nil
}

// Get retrieves a provider by ID
func (r *Registry) Get(providerID string) (Provider, bool) {
	val, ok := r.services.Load(providerID)
	if !ok {
		return nil, false
	}
	return val.(Provider), true
}

// List returns all registered service definitions, sorted by ID.
func (r *Registry) List() []types.Service {
	var services []types.Service
	r.services.Range(func(_, value interface{}) bool {
		services = append(services, value.(Provider).Definition())
		return true
	})
	sort.Slice(services, func(i, j int) bool { return services[i].ID < services[j].ID })
	return services
}

// Lookup finds a tool definition by its full ID.
func (r *Registry) Lookup(toolID string) (types.Tool, Provider, bool) {
	parts := strings.SplitN(toolID, ".", 2)
	if len(parts) < 2 {
		return types.Tool{}, nil, false
	}
	provider, ok := r.Get(parts[0])
	if !ok {
		return types.Tool{}, nil, false
	}
	for _, tool := range provider.Definition().Tools {
		if tool.ID == toolID {
			return tool, provider, true
		}
	}
	return types.Tool{}, nil, false
}

// Execute validates params against the tool schema and runs the tool.
// Validation failures and unknown tools are reported as failed Results
// so the model can correct itself; the error return is reserved for
// infrastructure faults.
func (r *Registry) Execute(ctx context.Context, toolID string, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	toolID = CanonicalID(toolID)

	tool, provider, ok := r.Lookup(toolID)
	if !ok {
		return failure(fmt.Sprintf("unknown tool: %s", toolID)), nil
	}

	cleaned, err := schema.Validate(tool, params)
	if err != nil {
		return failure(err.Error()), nil
	}

	return provider.Execute(ctx, toolID, cleaned, reqCtx)
}

// Definitions renders the catalog as model-facing function definitions.
// Function names cannot contain dots, so "anime.list" is exposed as
// "anime_list"; CanonicalID reverses the mapping on execution.
func (r *Registry) Definitions() []llm.ToolDefinition {
	var defs []llm.ToolDefinition
	for _, svc := range r.List() {
		for _, tool := range svc.Tools {
			defs = append(defs, llm.ToolDefinition{
				Name:        strings.Replace(tool.ID, ".", "_", 1),
				Description: tool.Description,
				Parameters:  schema.JSONSchema(tool),
			})
		}
	}
	return defs
}

// CanonicalID maps a model-facing function name back to a tool ID.
func CanonicalID(name string) string {
	if strings.Contains(name, ".") {
		return name
	}
	return strings.Replace(name, "_", ".", 1)
}

// Stats returns registry statistics
func (r *Registry) Stats() map[string]interface{} {
	var total, totalTools int
	categories := make(map[string]int)

	r.services.Range(func(_, value interface{}) bool {
		def := value.(Provider).Definition()
		total++
		totalTools += len(def.Tools)
		categories[string(def.Category)]++
		return true
	})

	return map[string]interface{}{
		"total_providers": total,
		"total_tools":     totalTools,
		"categories":      categories,
	}
}

func failure(message string) *types.Result {
	return &types.Result{Success: false, Error: &message}
}
