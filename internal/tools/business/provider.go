// Package business exposes tools over business entities: studios,
// publishers and licensors referenced by catalog entries.
package business

import (
	"context"
	"fmt"

	"github.com/animekun/chatd/internal/schema"
	"github.com/animekun/chatd/internal/shared/types"
	"github.com/animekun/chatd/internal/tools"
)

const basePath = "/api/admin/business"

// API is the backend surface this provider calls.
type API interface {
	Get(ctx context.Context, path string, query map[string]interface{}, authToken string) (interface{}, error)
	Post(ctx context.Context, path string, body interface{}, authToken string) (interface{}, error)
	Put(ctx context.Context, path string, body interface{}, authToken string) (interface{}, error)
	Delete(ctx context.Context, path string, authToken string) (interface{}, error)
}

// Provider implements business entity management
type Provider struct {
	api API
}

// NewProvider creates a business provider
func NewProvider(api API) *Provider {
	return &Provider{api: api}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "business",
		Name:        "Business Entities",
		Description: "Manage studios, publishers and licensors and their links to catalog entries",
		Category:    types.CategoryBusiness,
		Capabilities: []string{
			"list",
			"create",
			"update",
			"delete",
			"link",
		},
		Tools: getTools(),
	}
}

func getTools() []types.Tool {
	return []types.Tool{
		{
			ID:   "business.list",
			Name: "List Business Entities",
			Description: "Search and list business entities (studios, publishers, licensors). " +
				"Use this first to resolve an entity's ID before updating or linking it.",
			Parameters: append(schema.Pagination(),
				types.Parameter{Name: "search", Type: "string", Description: "Search query for entity name"},
				types.Parameter{Name: "type", Type: "string", Description: "Filter by entity type", Enum: []interface{}{"studio", "editeur", "licence"}},
			),
			Returns: "object",
		},
		{
			ID:          "business.create",
			Name:        "Create Business Entity",
			Description: "Create a new business entity. Check with business.list first that it does not already exist.",
			Parameters: []types.Parameter{
				{Name: "denomination", Type: "string", Description: "Entity name", Required: true},
				{Name: "niceUrl", Type: "string", Description: "URL-friendly slug", Required: true},
				{Name: "type", Type: "string", Description: "Entity type", Required: true, Enum: []interface{}{"studio", "editeur", "licence"}},
				{Name: "siteOfficiel", Type: "string", Description: "Official website URL"},
				{Name: "image", Type: "string", Description: "Logo image URL"},
				{Name: "statut", Type: "integer", Description: "Status: 0=hidden, 1=visible", Minimum: schema.Bound(0), Maximum: schema.Bound(1), Default: 1},
			},
			Returns: "object",
		},
		{
			ID:          "business.update",
			Name:        "Update Business Entity",
			Description: "Update fields of an existing business entity. Only the provided fields change.",
			Parameters: []types.Parameter{
				schema.IDField("id", "Entity ID to update"),
				{Name: "denomination", Type: "string", Description: "Entity name"},
				{Name: "type", Type: "string", Description: "Entity type", Enum: []interface{}{"studio", "editeur", "licence"}},
				{Name: "siteOfficiel", Type: "string", Description: "Official website URL"},
				{Name: "image", Type: "string", Description: "Logo image URL"},
				{Name: "statut", Type: "integer", Description: "Status: 0=hidden, 1=visible", Minimum: schema.Bound(0), Maximum: schema.Bound(1)},
			},
			Returns: "object",
		},
		{
			ID:          "business.delete",
			Name:        "Delete Business Entity",
			Description: "Permanently delete a business entity. Ask the admin for confirmation before calling this.",
			Parameters: []types.Parameter{
				schema.IDField("id", "Entity ID to delete"),
			},
			Returns: "object",
		},
		{
			ID:          "business.linkAnime",
			Name:        "Link Anime To Business Entity",
			Description: "Associate an anime with a business entity, e.g. attach a licensor to an anime's licence field.",
			Parameters: []types.Parameter{
				schema.IDField("id", "Entity ID"),
				schema.IDField("animeId", "Anime ID to link"),
				{Name: "role", Type: "string", Description: "Relation role", Enum: []interface{}{"studio", "editeur", "licence"}},
			},
			Returns: "object",
		},
	}
}

// Execute runs a business entity operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	token := ""
	if reqCtx != nil {
		token = reqCtx.AuthToken
	}

	switch toolID {
	case "business.list":
		return p.list(ctx, params, token)
	case "business.create":
		return p.create(ctx, params, token)
	case "business.update":
		return p.update(ctx, params, token)
	case "business.delete":
		return p.delete(ctx, params, token)
	case "business.linkAnime":
		return p.linkAnime(ctx, params, token)
	default:
		return tools.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) list(ctx context.Context, params map[string]interface{}, token string) (*types.Result, error) {
	result, err := p.api.Get(ctx, basePath, params, token)
	if err != nil {
		return tools.Failure(err.Error())
	}
	data := tools.Wrap(result, "items")
	return tools.Success(data, fmt.Sprintf("Found %d business entit(ies)", tools.CountOf(data, "items")))
}

func (p *Provider) create(ctx context.Context, params map[string]interface{}, token string) (*types.Result, error) {
	result, err := p.api.Post(ctx, basePath, params, token)
	if err != nil {
		return tools.Failure(err.Error())
	}
	return tools.Success(tools.Wrap(result, "business"),
		fmt.Sprintf("Business entity created with ID %v", tools.IDOf(result, "idBusiness")))
}

func (p *Provider) update(ctx context.Context, params map[string]interface{}, token string) (*types.Result, error) {
	id, _ := tools.Int(params, "id")
	result, err := p.api.Put(ctx, fmt.Sprintf("%s/%d", basePath, id), tools.Without(params, "id"), token)
	if err != nil {
		return tools.Failure(err.Error())
	}
	return tools.Success(tools.Wrap(result, "business"), fmt.Sprintf("Business entity ID %d updated", id))
}

func (p *Provider) delete(ctx context.Context, params map[string]interface{}, token string) (*types.Result, error) {
	id, _ := tools.Int(params, "id")
	result, err := p.api.Delete(ctx, fmt.Sprintf("%s/%d", basePath, id), token)
	if err != nil {
		return tools.Failure(err.Error())
	}
	return tools.Success(tools.Wrap(result, "deleted"), fmt.Sprintf("Business entity ID %d deleted", id))
}

func (p *Provider) linkAnime(ctx context.Context, params map[string]interface{}, token string) (*types.Result, error) {
	id, _ := tools.Int(params, "id")
	animeID, _ := tools.Int(params, "animeId")

	result, err := p.api.Post(ctx, fmt.Sprintf("%s/%d/animes", basePath, id), tools.Without(params, "id"), token)
	if err != nil {
		return tools.Failure(err.Error())
	}
	return tools.Success(tools.Wrap(result, "link"),
		fmt.Sprintf("Anime ID %d linked to business entity ID %d", animeID, id))
}
