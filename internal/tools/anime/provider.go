// Package anime exposes CRUD tools over the anime catalog.
package anime

import (
	"context"
	"fmt"

	"github.com/animekun/chatd/internal/schema"
	"github.com/animekun/chatd/internal/shared/types"
	"github.com/animekun/chatd/internal/tools"
)

const basePath = "/api/admin/animes"

// API is the backend surface this provider calls.
type API interface {
	Get(ctx context.Context, path string, query map[string]interface{}, authToken string) (interface{}, error)
	Post(ctx context.Context, path string, body interface{}, authToken string) (interface{}, error)
	Put(ctx context.Context, path string, body interface{}, authToken string) (interface{}, error)
	Delete(ctx context.Context, path string, authToken string) (interface{}, error)
}

// Provider implements anime catalog management
type Provider struct {
	api API
}

// NewProvider creates an anime provider
func NewProvider(api API) *Provider {
	return &Provider{api: api}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "anime",
		Name:        "Anime Catalog",
		Description: "Search, create, update and moderate anime entries",
		Category:    types.CategoryAnime,
		Capabilities: []string{
			"list",
			"get",
			"create",
			"update",
			"moderate",
			"delete",
		},
		Tools: getTools(),
	}
}

func getTools() []types.Tool {
	return []types.Tool{
		{
			ID:   "anime.list",
			Name: "List Animes",
			Description: "Search and list animes from the database. Use this to find a specific anime by title (search parameter), " +
				"list pending animes for moderation (statut=0), list published animes (statut=1), or filter by year and completion status. " +
				"Always use this tool first when the admin mentions a specific anime to get its ID.",
			Parameters: append(schema.Pagination(),
				types.Parameter{Name: "search", Type: "string", Description: "Search query for anime title"},
				schema.YearField("annee", "Filter by year", false),
				schema.CompletionField(),
				schema.StatusField(false),
				types.Parameter{Name: "sortBy", Type: "string", Description: "Sort field", Enum: []interface{}{"dateAjout", "titre", "annee"}},
				types.Parameter{Name: "sortOrder", Type: "string", Description: "Sort direction", Enum: []interface{}{"asc", "desc"}},
			),
			Returns: "object",
		},
		{
			ID:          "anime.get",
			Name:        "Get Anime",
			Description: "Fetch one anime entry with all its fields by database ID.",
			Parameters: []types.Parameter{
				schema.IDField("id", "Anime ID"),
			},
			Returns: "object",
		},
		{
			ID:   "anime.create",
			Name: "Create Anime",
			Description: "Create a new anime entry in the database. Before calling this you MUST search AniList for accurate data, " +
				"present it to the admin, and create only after the admin confirms. Required fields: titre, niceUrl, annee, nbEp, synopsis.",
			Parameters: []types.Parameter{
				{Name: "titre", Type: "string", Description: "Main title of the anime", Required: true},
				{Name: "niceUrl", Type: "string", Description: "URL-friendly slug for the anime", Required: true},
				{Name: "titreOrig", Type: "string", Description: "Original title (usually in Japanese)"},
				{Name: "titreFr", Type: "string", Description: "French title"},
				{Name: "titresAlternatifs", Type: "string", Description: "Alternative titles, newline separated"},
				schema.YearField("annee", "Release year", true),
				{Name: "nbEp", Type: "integer", Description: "Number of episodes", Required: true, Minimum: schema.Bound(0)},
				{Name: "synopsis", Type: "string", Description: "Synopsis/description of the anime", Required: true},
				{Name: "studio", Type: "string", Description: "Animation studio"},
				{Name: "realisateur", Type: "string", Description: "Director name"},
				{Name: "image", Type: "string", Description: "Cover image URL"},
				{Name: "statut", Type: "integer", Description: "Status: 0=blocked, 1=published, 2=pending", Minimum: schema.Bound(0), Maximum: schema.Bound(2), Default: 0},
				{Name: "format", Type: "string", Description: "Format: Série TV, Film, OAV, etc."},
				{Name: "licence", Type: "integer", Description: "Licensor ID"},
				{Name: "ficheComplete", Type: "integer", Description: "Completion status: 0=incomplete, 1=complete", Minimum: schema.Bound(0), Maximum: schema.Bound(1), Default: 0},
				{Name: "dateDiffusion", Type: "string", Description: "Air date in DD/MM/YYYY format"},
				{Name: "officialSite", Type: "string", Description: "Official website URL"},
			},
			Returns: "object",
		},
		{
			ID:   "anime.update",
			Name: "Update Anime",
			Description: "Update fields of an existing anime entry. Only the provided fields change. " +
				"Use anime.list first to resolve the anime ID.",
			Parameters: []types.Parameter{
				schema.IDField("id", "Anime ID to update"),
				schema.YearField("annee", "Release year", false),
				{Name: "titreOrig", Type: "string", Description: "Original title (usually Japanese)"},
				{Name: "nbEp", Type: "integer", Description: "Number of episodes", Minimum: schema.Bound(0)},
				{Name: "synopsis", Type: "string", Description: "Synopsis/description"},
				schema.StatusField(false),
				{Name: "format", Type: "string", Description: "Format: Série TV, Film, OAV, Spécial, etc."},
				{Name: "titreFr", Type: "string", Description: "French title"},
				{Name: "titresAlternatifs", Type: "string", Description: "Alternative titles, newline separated"},
				{Name: "editeur", Type: "string", Description: "Publisher/Editor"},
				{Name: "nbEpduree", Type: "string", Description: "Episode count with duration (e.g. \"12\", \"24+\")"},
				{Name: "officialSite", Type: "string", Description: "Official website URL"},
				{Name: "commentaire", Type: "string", Description: "Comments about the anime entry"},
				schema.CompletionField(),
				{Name: "dateDiffusion", Type: "string", Description: "Air date in YYYY-MM-DD format (convert from DD/MM/YYYY if the admin provides that format)"},
			},
			Returns: "object",
		},
		{
			ID:   "anime.updateStatus",
			Name: "Update Anime Status",
			Description: "Update the moderation status of an anime: approve pending entries (statut=1), refuse/hide entries (statut=2) " +
				"or mark as pending/draft (statut=0). Use anime.list first to get the anime ID.",
			Parameters: []types.Parameter{
				schema.IDField("id", "Anime ID to update"),
				schema.StatusField(true),
			},
			Returns: "object",
		},
		{
			ID:          "anime.delete",
			Name:        "Delete Anime",
			Description: "Permanently delete an anime entry. Ask the admin for confirmation before calling this.",
			Parameters: []types.Parameter{
				schema.IDField("id", "Anime ID to delete"),
			},
			Returns: "object",
		},
	}
}

// Execute runs an anime catalog operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	token := ""
	if reqCtx != nil {
		token = reqCtx.AuthToken
	}

	switch toolID {
	case "anime.list":
		return p.list(ctx, params, token)
	case "anime.get":
		return p.get(ctx, params, token)
	case "anime.create":
		return p.create(ctx, params, token)
	case "anime.update":
		return p.update(ctx, params, token)
	case "anime.updateStatus":
		return p.updateStatus(ctx, params, token)
	case "anime.delete":
		return p.delete(ctx, params, token)
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
	return tools.Success(data, fmt.Sprintf("Found %d anime(s)", tools.CountOf(data, "items")))
}

func (p *Provider) get(ctx context.Context, params map[string]interface{}, token string) (*types.Result, error) {
	id, _ := tools.Int(params, "id")
	result, err := p.api.Get(ctx, fmt.Sprintf("%s/%d", basePath, id), nil, token)
	if err != nil {
		return tools.Failure(err.Error())
	}
	return tools.Success(tools.Wrap(result, "anime"), "")
}

func (p *Provider) create(ctx context.Context, params map[string]interface{}, token string) (*types.Result, error) {
	result, err := p.api.Post(ctx, basePath, params, token)
	if err != nil {
		return tools.Failure(err.Error())
	}
	return tools.Success(tools.Wrap(result, "anime"),
		fmt.Sprintf("Anime created successfully with ID %v", tools.IDOf(result, "idAnime")))
}

func (p *Provider) update(ctx context.Context, params map[string]interface{}, token string) (*types.Result, error) {
	id, _ := tools.Int(params, "id")
	result, err := p.api.Put(ctx, fmt.Sprintf("%s/%d", basePath, id), tools.Without(params, "id"), token)
	if err != nil {
		return tools.Failure(err.Error())
	}
	return tools.Success(tools.Wrap(result, "anime"), fmt.Sprintf("Anime ID %d updated", id))
}

func (p *Provider) updateStatus(ctx context.Context, params map[string]interface{}, token string) (*types.Result, error) {
	id, _ := tools.Int(params, "id")
	statut, _ := tools.Int(params, "statut")

	result, err := p.api.Put(ctx, fmt.Sprintf("%s/%d/status", basePath, id),
		map[string]interface{}{"statut": statut}, token)
	if err != nil {
		return tools.Failure(err.Error())
	}

	statusText := "set to pending"
	switch statut {
	case 1:
		statusText = "approved"
	case 2:
		statusText = "refused"
	}
	return tools.Success(tools.Wrap(result, "anime"), fmt.Sprintf("Anime ID %d has been %s", id, statusText))
}

func (p *Provider) delete(ctx context.Context, params map[string]interface{}, token string) (*types.Result, error) {
	id, _ := tools.Int(params, "id")
	result, err := p.api.Delete(ctx, fmt.Sprintf("%s/%d", basePath, id), token)
	if err != nil {
		return tools.Failure(err.Error())
	}
	return tools.Success(tools.Wrap(result, "deleted"), fmt.Sprintf("Anime ID %d deleted", id))
}
