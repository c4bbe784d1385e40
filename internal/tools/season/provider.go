// Package season exposes tools over broadcast seasons and their anime
// line-ups.
package season

import (
	"context"
	"fmt"

	"github.com/animekun/chatd/internal/schema"
	"github.com/animekun/chatd/internal/shared/types"
	"github.com/animekun/chatd/internal/tools"
)

const (
	publicPath = "/api/seasons"
	adminPath  = "/api/admin/seasons"
)

// Names indexed by the saison code used across the database.
var seasonNames = map[int]string{1: "hiver", 2: "printemps", 3: "été", 4: "automne"}

// API is the backend surface this provider calls.
type API interface {
	Get(ctx context.Context, path string, query map[string]interface{}, authToken string) (interface{}, error)
	Post(ctx context.Context, path string, body interface{}, authToken string) (interface{}, error)
	Patch(ctx context.Context, path string, body interface{}, authToken string) (interface{}, error)
	Delete(ctx context.Context, path string, authToken string) (interface{}, error)
}

// Provider implements season management
type Provider struct {
	api API
}

// NewProvider creates a season provider
func NewProvider(api API) *Provider {
	return &Provider{api: api}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "season",
		Name:        "Season Management",
		Description: "List, create and curate broadcast seasons and their anime line-ups",
		Category:    types.CategorySeason,
		Capabilities: []string{
			"list",
			"current",
			"create",
			"curate",
			"delete",
		},
		Tools: getTools(),
	}
}

func getTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "season.list",
			Name:        "List Seasons",
			Description: "List all broadcast seasons with their year, season number and visibility status.",
			Returns:     "object",
		},
		{
			ID:          "season.current",
			Name:        "Get Current Season",
			Description: "Get the season currently marked as active on the site.",
			Returns:     "object",
		},
		{
			ID:          "season.lastCreated",
			Name:        "Get Last Created Season",
			Description: "Get the most recently created season. Useful before creating the next one.",
			Returns:     "object",
		},
		{
			ID:   "season.create",
			Name: "Create Season",
			Description: "Create a new broadcast season. Fails if a season with the same year and season number already exists; " +
				"season numbers: 1=hiver, 2=printemps, 3=été, 4=automne.",
			Parameters: []types.Parameter{
				{Name: "annee", Type: "integer", Description: "Year for the season", Required: true, Minimum: schema.Bound(2000), Maximum: schema.Bound(2100)},
				{Name: "saison", Type: "integer", Description: "Season number: 1=hiver, 2=printemps, 3=été, 4=automne", Required: true, Minimum: schema.Bound(1), Maximum: schema.Bound(4)},
				{Name: "statut", Type: "integer", Description: "Status: 0=hidden, 1=visible", Minimum: schema.Bound(0), Maximum: schema.Bound(1), Default: 1},
			},
			Returns: "object",
		},
		{
			ID:          "season.updateStatus",
			Name:        "Update Season Status",
			Description: "Change a season's visibility: 0=hidden, 1=visible.",
			Parameters: []types.Parameter{
				schema.IDField("id", "Season ID to update"),
				{Name: "statut", Type: "integer", Description: "New status: 0=hidden, 1=visible", Required: true, Minimum: schema.Bound(0), Maximum: schema.Bound(1)},
			},
			Returns: "object",
		},
		{
			ID:          "season.addAnime",
			Name:        "Add Anime To Season",
			Description: "Add an anime to a season's line-up. Resolve both IDs first with season.list and anime.list.",
			Parameters: []types.Parameter{
				schema.IDField("seasonId", "Season ID to add the anime to"),
				schema.IDField("animeId", "Anime ID to add to the season"),
			},
			Returns: "object",
		},
		{
			ID:          "season.removeAnime",
			Name:        "Remove Anime From Season",
			Description: "Remove an anime from a season's line-up.",
			Parameters: []types.Parameter{
				schema.IDField("seasonId", "Season ID to remove the anime from"),
				schema.IDField("animeId", "Anime ID to remove from the season"),
			},
			Returns: "object",
		},
		{
			ID:          "season.delete",
			Name:        "Delete Season",
			Description: "Permanently delete a season. Ask the admin for confirmation before calling this.",
			Parameters: []types.Parameter{
				schema.IDField("id", "Season ID to delete"),
			},
			Returns: "object",
		},
	}
}

// Execute runs a season operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	token := ""
	if reqCtx != nil {
		token = reqCtx.AuthToken
	}

	switch toolID {
	case "season.list":
		return p.list(ctx, token)
	case "season.current":
		return p.fetch(ctx, publicPath+"/current", "season", token)
	case "season.lastCreated":
		return p.fetch(ctx, publicPath+"/last-created", "season", token)
	case "season.create":
		return p.create(ctx, params, token)
	case "season.updateStatus":
		return p.updateStatus(ctx, params, token)
	case "season.addAnime":
		return p.addAnime(ctx, params, token)
	case "season.removeAnime":
		return p.removeAnime(ctx, params, token)
	case "season.delete":
		return p.delete(ctx, params, token)
	default:
		return tools.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) list(ctx context.Context, token string) (*types.Result, error) {
	result, err := p.api.Get(ctx, publicPath, nil, token)
	if err != nil {
		return tools.Failure(err.Error())
	}
	data := tools.Wrap(result, "seasons")
	return tools.Success(data, fmt.Sprintf("Found %d season(s)", tools.CountOf(data, "seasons")))
}

func (p *Provider) fetch(ctx context.Context, path, key, token string) (*types.Result, error) {
	result, err := p.api.Get(ctx, path, nil, token)
	if err != nil {
		return tools.Failure(err.Error())
	}
	return tools.Success(tools.Wrap(result, key), "")
}

// create reads the existing seasons first and refuses duplicates, so a
// repeated "create winter 2026" instruction cannot fork the line-up.
func (p *Provider) create(ctx context.Context, params map[string]interface{}, token string) (*types.Result, error) {
	annee, _ := tools.Int(params, "annee")
	saison, _ := tools.Int(params, "saison")

	existing, err := p.api.Get(ctx, publicPath, nil, token)
	if err != nil {
		return tools.Failure(err.Error())
	}
	if id := findSeason(existing, annee, saison); id != nil {
		return tools.Failure(fmt.Sprintf(
			"season %s %d already exists with ID %v; use the existing season instead of creating a duplicate",
			seasonNames[saison], annee, id))
	}

	result, err := p.api.Post(ctx, adminPath, params, token)
	if err != nil {
		return tools.Failure(err.Error())
	}
	return tools.Success(tools.Wrap(result, "season"),
		fmt.Sprintf("Season %s %d created with ID %v", seasonNames[saison], annee, tools.IDOf(result, "idSaison")))
}

func (p *Provider) updateStatus(ctx context.Context, params map[string]interface{}, token string) (*types.Result, error) {
	id, _ := tools.Int(params, "id")
	statut, _ := tools.Int(params, "statut")

	result, err := p.api.Patch(ctx, fmt.Sprintf("%s/%d", adminPath, id),
		map[string]interface{}{"statut": statut}, token)
	if err != nil {
		return tools.Failure(err.Error())
	}

	visibility := "hidden"
	if statut == 1 {
		visibility = "visible"
	}
	return tools.Success(tools.Wrap(result, "season"), fmt.Sprintf("Season ID %d is now %s", id, visibility))
}

func (p *Provider) addAnime(ctx context.Context, params map[string]interface{}, token string) (*types.Result, error) {
	seasonID, _ := tools.Int(params, "seasonId")
	animeID, _ := tools.Int(params, "animeId")

	result, err := p.api.Post(ctx, fmt.Sprintf("%s/%d/animes", adminPath, seasonID),
		map[string]interface{}{"animeId": animeID}, token)
	if err != nil {
		return tools.Failure(err.Error())
	}
	return tools.Success(tools.Wrap(result, "season"),
		fmt.Sprintf("Anime ID %d added to season ID %d", animeID, seasonID))
}

func (p *Provider) removeAnime(ctx context.Context, params map[string]interface{}, token string) (*types.Result, error) {
	seasonID, _ := tools.Int(params, "seasonId")
	animeID, _ := tools.Int(params, "animeId")

	result, err := p.api.Delete(ctx, fmt.Sprintf("%s/%d/animes/%d", adminPath, seasonID, animeID), token)
	if err != nil {
		return tools.Failure(err.Error())
	}
	return tools.Success(tools.Wrap(result, "season"),
		fmt.Sprintf("Anime ID %d removed from season ID %d", animeID, seasonID))
}

func (p *Provider) delete(ctx context.Context, params map[string]interface{}, token string) (*types.Result, error) {
	id, _ := tools.Int(params, "id")
	result, err := p.api.Delete(ctx, fmt.Sprintf("%s/%d", adminPath, id), token)
	if err != nil {
		return tools.Failure(err.Error())
	}
	return tools.Success(tools.Wrap(result, "deleted"), fmt.Sprintf("Season ID %d deleted", id))
}

// findSeason scans a seasons listing for a matching year + season
// number and returns the existing record's ID, or nil.
func findSeason(listing interface{}, annee, saison int) interface{} {
	items, ok := listing.([]interface{})
	if !ok {
		if m, isMap := listing.(map[string]interface{}); isMap {
			items, _ = m["seasons"].([]interface{})
		}
	}
	for _, item := range items {
		rec, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if num(rec["annee"]) == annee && num(rec["saison"]) == saison {
			return tools.IDOf(rec, "idSaison")
		}
	}
	return nil
}

func num(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return -1
}
