// Package manga exposes CRUD tools over the manga catalog, including
// volume management.
package manga

import (
	"context"
	"fmt"

	"github.com/animekun/chatd/internal/schema"
	"github.com/animekun/chatd/internal/shared/types"
	"github.com/animekun/chatd/internal/tools"
)

const basePath = "/api/admin/mangas"

// API is the backend surface this provider calls.
type API interface {
	Get(ctx context.Context, path string, query map[string]interface{}, authToken string) (interface{}, error)
	Post(ctx context.Context, path string, body interface{}, authToken string) (interface{}, error)
	Put(ctx context.Context, path string, body interface{}, authToken string) (interface{}, error)
	Delete(ctx context.Context, path string, authToken string) (interface{}, error)
}

// Provider implements manga catalog management
type Provider struct {
	api API
}

// NewProvider creates a manga provider
func NewProvider(api API) *Provider {
	return &Provider{api: api}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "manga",
		Name:        "Manga Catalog",
		Description: "Search, create, update and moderate manga entries and their volumes",
		Category:    types.CategoryManga,
		Capabilities: []string{
			"list",
			"get",
			"create",
			"update",
			"moderate",
			"delete",
			"volumes",
		},
		Tools: getTools(),
	}
}

func getTools() []types.Tool {
	return []types.Tool{
		{
			ID:   "manga.list",
			Name: "List Mangas",
			Description: "Search and list mangas from the database. Use this to find a specific manga by title (search parameter), " +
				"list pending mangas for moderation (statut=0) or filter by year and completion status. " +
				"Always use this tool first when the admin mentions a specific manga to get its ID.",
			Parameters: append(schema.Pagination(),
				types.Parameter{Name: "search", Type: "string", Description: "Search query for manga title"},
				schema.YearField("annee", "Filter by year", false),
				schema.CompletionField(),
				schema.StatusField(false),
				types.Parameter{Name: "sortBy", Type: "string", Description: "Sort field", Enum: []interface{}{"dateAjout", "titre", "annee"}},
				types.Parameter{Name: "sortOrder", Type: "string", Description: "Sort direction", Enum: []interface{}{"asc", "desc"}},
			),
			Returns: "object",
		},
		{
			ID:          "manga.get",
			Name:        "Get Manga",
			Description: "Fetch one manga entry with all its fields by database ID.",
			Parameters: []types.Parameter{
				schema.IDField("id", "Manga ID"),
			},
			Returns: "object",
		},
		{
			ID:   "manga.create",
			Name: "Create Manga",
			Description: "Create a new manga entry in the database. Before calling this you MUST search an external source " +
				"(Google Books or Nautiljon) for accurate data, present it to the admin, and create only after the admin confirms. " +
				"Required fields: titre, niceUrl, annee, nbVol, synopsis.",
			Parameters: []types.Parameter{
				{Name: "titre", Type: "string", Description: "Main title of the manga", Required: true},
				{Name: "niceUrl", Type: "string", Description: "URL-friendly slug for the manga", Required: true},
				{Name: "titreOrig", Type: "string", Description: "Original title (usually in Japanese)"},
				{Name: "titreFr", Type: "string", Description: "French title"},
				{Name: "titresAlternatifs", Type: "string", Description: "Alternative titles, newline separated"},
				schema.YearField("annee", "First publication year", true),
				{Name: "nbVol", Type: "integer", Description: "Number of volumes", Required: true, Minimum: schema.Bound(0)},
				{Name: "synopsis", Type: "string", Description: "Synopsis/description of the manga", Required: true},
				{Name: "auteur", Type: "string", Description: "Author (mangaka)"},
				{Name: "editeur", Type: "string", Description: "Publisher"},
				{Name: "image", Type: "string", Description: "Cover image URL"},
				{Name: "statut", Type: "integer", Description: "Status: 0=blocked, 1=published, 2=pending", Minimum: schema.Bound(0), Maximum: schema.Bound(2), Default: 0},
				{Name: "licence", Type: "integer", Description: "Licensor ID"},
				{Name: "ficheComplete", Type: "integer", Description: "Completion status: 0=incomplete, 1=complete", Minimum: schema.Bound(0), Maximum: schema.Bound(1), Default: 0},
				{Name: "officialSite", Type: "string", Description: "Official website URL"},
			},
			Returns: "object",
		},
		{
			ID:   "manga.update",
			Name: "Update Manga",
			Description: "Update fields of an existing manga entry. Only the provided fields change. " +
				"Use manga.list first to resolve the manga ID.",
			Parameters: []types.Parameter{
				schema.IDField("id", "Manga ID to update"),
				schema.YearField("annee", "First publication year", false),
				{Name: "titreOrig", Type: "string", Description: "Original title (usually Japanese)"},
				{Name: "nbVol", Type: "integer", Description: "Number of volumes", Minimum: schema.Bound(0)},
				{Name: "synopsis", Type: "string", Description: "Synopsis/description"},
				schema.StatusField(false),
				{Name: "titreFr", Type: "string", Description: "French title"},
				{Name: "titresAlternatifs", Type: "string", Description: "Alternative titles, newline separated"},
				{Name: "auteur", Type: "string", Description: "Author (mangaka)"},
				{Name: "editeur", Type: "string", Description: "Publisher"},
				{Name: "officialSite", Type: "string", Description: "Official website URL"},
				{Name: "commentaire", Type: "string", Description: "Comments about the manga entry"},
				schema.CompletionField(),
			},
			Returns: "object",
		},
		{
			ID:   "manga.updateStatus",
			Name: "Update Manga Status",
			Description: "Update the moderation status of a manga: approve pending entries (statut=1), refuse/hide entries (statut=2) " +
				"or mark as pending/draft (statut=0). Use manga.list first to get the manga ID.",
			Parameters: []types.Parameter{
				schema.IDField("id", "Manga ID to update"),
				schema.StatusField(true),
			},
			Returns: "object",
		},
		{
			ID:          "manga.delete",
			Name:        "Delete Manga",
			Description: "Permanently delete a manga entry. Ask the admin for confirmation before calling this.",
			Parameters: []types.Parameter{
				schema.IDField("id", "Manga ID to delete"),
			},
			Returns: "object",
		},
		{
			ID:          "manga.listVolumes",
			Name:        "List Manga Volumes",
			Description: "List the registered volumes of a manga with their numbers, titles and release dates.",
			Parameters: []types.Parameter{
				schema.IDField("id", "Manga ID"),
			},
			Returns: "object",
		},
		{
			ID:          "manga.addVolume",
			Name:        "Add Manga Volume",
			Description: "Register a new volume for a manga.",
			Parameters: []types.Parameter{
				schema.IDField("id", "Manga ID"),
				{Name: "numero", Type: "integer", Description: "Volume number", Required: true, Minimum: schema.Bound(1)},
				{Name: "titre", Type: "string", Description: "Volume title"},
				{Name: "dateSortie", Type: "string", Description: "Release date in YYYY-MM-DD format"},
				{Name: "isbn", Type: "string", Description: "ISBN of the volume"},
			},
			Returns: "object",
		},
	}
}

// Execute runs a manga catalog operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	token := ""
	if reqCtx != nil {
		token = reqCtx.AuthToken
	}

	switch toolID {
	case "manga.list":
		return p.list(ctx, params, token)
	case "manga.get":
		return p.get(ctx, params, token)
	case "manga.create":
		return p.create(ctx, params, token)
	case "manga.update":
		return p.update(ctx, params, token)
	case "manga.updateStatus":
		return p.updateStatus(ctx, params, token)
	case "manga.delete":
		return p.delete(ctx, params, token)
	case "manga.listVolumes":
		return p.listVolumes(ctx, params, token)
	case "manga.addVolume":
		return p.addVolume(ctx, params, token)
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
	return tools.Success(data, fmt.Sprintf("Found %d manga(s)", tools.CountOf(data, "items")))
}

func (p *Provider) get(ctx context.Context, params map[string]interface{}, token string) (*types.Result, error) {
	id, _ := tools.Int(params, "id")
	result, err := p.api.Get(ctx, fmt.Sprintf("%s/%d", basePath, id), nil, token)
	if err != nil {
		return tools.Failure(err.Error())
	}
	return tools.Success(tools.Wrap(result, "manga"), "")
}

func (p *Provider) create(ctx context.Context, params map[string]interface{}, token string) (*types.Result, error) {
	result, err := p.api.Post(ctx, basePath, params, token)
	if err != nil {
		return tools.Failure(err.Error())
	}
	return tools.Success(tools.Wrap(result, "manga"),
		fmt.Sprintf("Manga created successfully with ID %v", tools.IDOf(result, "idManga")))
}

func (p *Provider) update(ctx context.Context, params map[string]interface{}, token string) (*types.Result, error) {
	id, _ := tools.Int(params, "id")
	result, err := p.api.Put(ctx, fmt.Sprintf("%s/%d", basePath, id), tools.Without(params, "id"), token)
	if err != nil {
		return tools.Failure(err.Error())
	}
	return tools.Success(tools.Wrap(result, "manga"), fmt.Sprintf("Manga ID %d updated", id))
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
	return tools.Success(tools.Wrap(result, "manga"), fmt.Sprintf("Manga ID %d has been %s", id, statusText))
}

func (p *Provider) delete(ctx context.Context, params map[string]interface{}, token string) (*types.Result, error) {
	id, _ := tools.Int(params, "id")
	result, err := p.api.Delete(ctx, fmt.Sprintf("%s/%d", basePath, id), token)
	if err != nil {
		return tools.Failure(err.Error())
	}
	return tools.Success(tools.Wrap(result, "deleted"), fmt.Sprintf("Manga ID %d deleted", id))
}

func (p *Provider) listVolumes(ctx context.Context, params map[string]interface{}, token string) (*types.Result, error) {
	id, _ := tools.Int(params, "id")
	result, err := p.api.Get(ctx, fmt.Sprintf("%s/%d/volumes", basePath, id), nil, token)
	if err != nil {
		return tools.Failure(err.Error())
	}
	data := tools.Wrap(result, "volumes")
	return tools.Success(data, fmt.Sprintf("Found %d volume(s)", tools.CountOf(data, "volumes")))
}

func (p *Provider) addVolume(ctx context.Context, params map[string]interface{}, token string) (*types.Result, error) {
	id, _ := tools.Int(params, "id")
	result, err := p.api.Post(ctx, fmt.Sprintf("%s/%d/volumes", basePath, id), tools.Without(params, "id"), token)
	if err != nil {
		return tools.Failure(err.Error())
	}
	return tools.Success(tools.Wrap(result, "volume"),
		fmt.Sprintf("Volume added to manga ID %d", id))
}
