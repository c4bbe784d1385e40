// Package external exposes read-only search tools over third-party
// sources proxied by the backend: AniList, Jikan, Google Books,
// Nautiljon and general web search.
package external

import (
	"context"
	"fmt"

	"github.com/animekun/chatd/internal/schema"
	"github.com/animekun/chatd/internal/shared/types"
	"github.com/animekun/chatd/internal/tools"
)

// API is the backend surface this provider calls.
type API interface {
	Get(ctx context.Context, path string, query map[string]interface{}, authToken string) (interface{}, error)
}

// Provider implements external source lookups
type Provider struct {
	api       API
	tavilyKey string
}

// NewProvider creates an external search provider. tavilyKey is
// forwarded to the backend's web search proxy and may be empty when
// the backend carries its own credential.
func NewProvider(api API, tavilyKey string) *Provider {
	return &Provider{api: api, tavilyKey: tavilyKey}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "external",
		Name:        "External Sources",
		Description: "Search AniList, Jikan, Google Books, Nautiljon and the web for reference data",
		Category:    types.CategoryExternal,
		Capabilities: []string{
			"anilist",
			"jikan",
			"googlebooks",
			"nautiljon",
			"web",
		},
		Tools: getTools(),
	}
}

func searchParams(what string, maxLimit float64) []types.Parameter {
	return []types.Parameter{
		{Name: "q", Type: "string", Description: "Search query for " + what, Required: true},
		{Name: "limit", Type: "integer", Description: "Maximum number of results", Minimum: schema.Bound(1), Maximum: schema.Bound(maxLimit), Default: 10},
	}
}

func getTools() []types.Tool {
	return []types.Tool{
		{
			ID:   "external.searchAniList",
			Name: "Search AniList",
			Description: "Search the AniList database for anime information. Use this when the admin wants to add a new anime, " +
				"needs accurate metadata (episodes, year, studio) or wants to verify anime information. " +
				"Returns detailed anime data including title, episodes, year, studios and synopsis.",
			Parameters: searchParams("anime title", 50),
			Returns:    "object",
		},
		{
			ID:   "external.seasonalAniList",
			Name: "AniList Seasonal Chart",
			Description: "Fetch the AniList seasonal chart for a given year and season and compare it with the local database, " +
				"flagging which entries already exist. Use this to prepare a new season's line-up.",
			Parameters: []types.Parameter{
				{Name: "year", Type: "integer", Description: "Chart year", Required: true, Minimum: schema.Bound(2000), Maximum: schema.Bound(2100)},
				{Name: "season", Type: "integer", Description: "Season number: 1=hiver, 2=printemps, 3=été, 4=automne", Required: true, Minimum: schema.Bound(1), Maximum: schema.Bound(4)},
			},
			Returns: "object",
		},
		{
			ID:          "external.searchJikan",
			Name:        "Search Jikan",
			Description: "Search the Jikan (MyAnimeList) API for anime information. Alternative source when AniList has no match.",
			Parameters:  searchParams("anime title", 25),
			Returns:     "object",
		},
		{
			ID:          "external.searchGoogleBooks",
			Name:        "Search Google Books",
			Description: "Search Google Books for manga volumes and publication data. Use when adding or completing manga entries.",
			Parameters:  searchParams("manga title", 40),
			Returns:     "object",
		},
		{
			ID:          "external.searchNautiljon",
			Name:        "Search Nautiljon",
			Description: "Search Nautiljon for French manga publication data (French publisher, volume count, release dates).",
			Parameters:  searchParams("manga title", 25),
			Returns:     "object",
		},
		{
			ID:          "external.webSearch",
			Name:        "Web Search",
			Description: "General web search for anything the specialized sources cannot answer, e.g. news or official announcements.",
			Parameters:  searchParams("the web", 20),
			Returns:     "object",
		},
	}
}

// Execute runs an external lookup
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, reqCtx *types.Context) (*types.Result, error) {
	token := ""
	if reqCtx != nil {
		token = reqCtx.AuthToken
	}

	switch toolID {
	case "external.searchAniList":
		return p.search(ctx, "/api/animes/anilist/search", params, token, "animes", "AniList")
	case "external.seasonalAniList":
		return p.seasonal(ctx, params, token)
	case "external.searchJikan":
		return p.search(ctx, "/api/animes/jikan/search", params, token, "animes", "Jikan")
	case "external.searchGoogleBooks":
		return p.search(ctx, "/api/mangas/googlebooks/search", params, token, "books", "Google Books")
	case "external.searchNautiljon":
		return p.search(ctx, "/api/mangas/nautiljon/search", params, token, "mangas", "Nautiljon")
	case "external.webSearch":
		return p.webSearch(ctx, params, token)
	default:
		return tools.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) search(ctx context.Context, path string, params map[string]interface{}, token, itemsKey, source string) (*types.Result, error) {
	result, err := p.api.Get(ctx, path, params, token)
	if err != nil {
		return tools.Failure(err.Error())
	}
	data := tools.Wrap(result, itemsKey)
	return tools.Success(data, fmt.Sprintf("Found %d result(s) on %s", tools.CountOf(data, itemsKey), source))
}

func (p *Provider) webSearch(ctx context.Context, params map[string]interface{}, token string) (*types.Result, error) {
	if p.tavilyKey != "" {
		q := make(map[string]interface{}, len(params)+1)
		for k, v := range params {
			q[k] = v
		}
		q["apiKey"] = p.tavilyKey
		params = q
	}
	return p.search(ctx, "/api/search/web", params, token, "results", "the web")
}

func (p *Provider) seasonal(ctx context.Context, params map[string]interface{}, token string) (*types.Result, error) {
	result, err := p.api.Get(ctx, "/api/animes/anilist/seasonal", params, token)
	if err != nil {
		return tools.Failure(err.Error())
	}
	data := tools.Wrap(result, "comparisons")
	return tools.Success(data, fmt.Sprintf("Seasonal chart fetched with %d entr(ies)", tools.CountOf(data, "comparisons")))
}
