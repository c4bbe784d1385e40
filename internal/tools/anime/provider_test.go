package anime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animekun/chatd/internal/backend"
	"github.com/animekun/chatd/internal/shared/types"
)

type stubAPI struct {
	lastMethod string
	lastPath   string
	lastQuery  map[string]interface{}
	lastBody   interface{}
	lastToken  string
	response   interface{}
	err        error
}

func (s *stubAPI) Get(ctx context.Context, path string, query map[string]interface{}, authToken string) (interface{}, error) {
	s.lastMethod, s.lastPath, s.lastQuery, s.lastToken = "GET", path, query, authToken
	return s.response, s.err
}

func (s *stubAPI) Post(ctx context.Context, path string, body interface{}, authToken string) (interface{}, error) {
	s.lastMethod, s.lastPath, s.lastBody, s.lastToken = "POST", path, body, authToken
	return s.response, s.err
}

func (s *stubAPI) Put(ctx context.Context, path string, body interface{}, authToken string) (interface{}, error) {
	s.lastMethod, s.lastPath, s.lastBody, s.lastToken = "PUT", path, body, authToken
	return s.response, s.err
}

func (s *stubAPI) Delete(ctx context.Context, path string, authToken string) (interface{}, error) {
	s.lastMethod, s.lastPath, s.lastToken = "DELETE", path, authToken
	return s.response, s.err
}

func reqCtx() *types.Context {
	return &types.Context{AuthToken: "jwt-token", UserID: "admin"}
}

func TestAnimeList(t *testing.T) {
	api := &stubAPI{response: map[string]interface{}{
		"items": []interface{}{map[string]interface{}{"idAnime": float64(172), "titre": "Naruto"}},
		"total": float64(1),
	}}
	provider := NewProvider(api)

	result, err := provider.Execute(context.Background(), "anime.list",
		map[string]interface{}{"search": "naruto", "page": 1, "limit": 20}, reqCtx())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "GET", api.lastMethod)
	assert.Equal(t, "/api/admin/animes", api.lastPath)
	assert.Equal(t, "naruto", api.lastQuery["search"])
	assert.Equal(t, "jwt-token", api.lastToken)
	require.NotNil(t, result.Message)
	assert.Equal(t, "Found 1 anime(s)", *result.Message)
}

func TestAnimeGet(t *testing.T) {
	api := &stubAPI{response: map[string]interface{}{"idAnime": float64(172), "titre": "Naruto"}}
	provider := NewProvider(api)

	result, err := provider.Execute(context.Background(), "anime.get",
		map[string]interface{}{"id": 172}, reqCtx())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "/api/admin/animes/172", api.lastPath)
	assert.Equal(t, "Naruto", result.Data["titre"])
}

func TestAnimeCreate(t *testing.T) {
	api := &stubAPI{response: map[string]interface{}{"id": float64(9001)}}
	provider := NewProvider(api)

	params := map[string]interface{}{
		"titre":    "Frieren",
		"niceUrl":  "frieren",
		"annee":    2023,
		"nbEp":     28,
		"synopsis": "Une elfe après la quête.",
	}
	result, err := provider.Execute(context.Background(), "anime.create", params, reqCtx())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "POST", api.lastMethod)
	assert.Equal(t, "/api/admin/animes", api.lastPath)
	assert.Equal(t, params, api.lastBody)
	require.NotNil(t, result.Message)
	assert.Equal(t, "Anime created successfully with ID 9001", *result.Message)
}

func TestAnimeUpdateStripsIDFromBody(t *testing.T) {
	api := &stubAPI{response: map[string]interface{}{"id": float64(172)}}
	provider := NewProvider(api)

	result, err := provider.Execute(context.Background(), "anime.update",
		map[string]interface{}{"id": 172, "nbEp": 220}, reqCtx())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "PUT", api.lastMethod)
	assert.Equal(t, "/api/admin/animes/172", api.lastPath)

	body, ok := api.lastBody.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 220, body["nbEp"])
	_, hasID := body["id"]
	assert.False(t, hasID, "record ID belongs in the path, not the body")
}

func TestAnimeUpdateStatus(t *testing.T) {
	api := &stubAPI{response: map[string]interface{}{}}
	provider := NewProvider(api)

	result, err := provider.Execute(context.Background(), "anime.updateStatus",
		map[string]interface{}{"id": 172, "statut": 1}, reqCtx())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "/api/admin/animes/172/status", api.lastPath)
	assert.Equal(t, map[string]interface{}{"statut": 1}, api.lastBody)
	require.NotNil(t, result.Message)
	assert.Equal(t, "Anime ID 172 has been approved", *result.Message)
}

func TestAnimeListIdempotent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items": [{"idAnime": 172, "titre": "Naruto", "nbEp": 220}], "total": 1}`))
	}))
	defer ts.Close()

	provider := NewProvider(backend.New(backend.Config{BaseURL: ts.URL}))
	params := map[string]interface{}{"search": "naruto", "page": 1, "limit": 20}

	first, err := provider.Execute(context.Background(), "anime.list", params, reqCtx())
	require.NoError(t, err)
	second, err := provider.Execute(context.Background(), "anime.list", params, reqCtx())
	require.NoError(t, err)

	assert.True(t, first.Success)
	assert.True(t, second.Success)
	assert.Equal(t, first.Data, second.Data)
	require.NotNil(t, first.Message)
	require.NotNil(t, second.Message)
	assert.Equal(t, *first.Message, *second.Message)
}

func TestAnimeCreateGetRoundTrip(t *testing.T) {
	var stored map[string]interface{}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/animes", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&stored))
		stored["idAnime"] = float64(9001)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{"id": 9001})
	})
	mux.HandleFunc("/api/admin/animes/9001", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		json.NewEncoder(w).Encode(stored)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	provider := NewProvider(backend.New(backend.Config{BaseURL: ts.URL}))

	created, err := provider.Execute(context.Background(), "anime.create", map[string]interface{}{
		"titre":    "Frieren",
		"niceUrl":  "frieren",
		"annee":    float64(2023),
		"nbEp":     float64(28),
		"synopsis": "Une elfe après la quête.",
	}, reqCtx())
	require.NoError(t, err)
	require.True(t, created.Success)
	require.NotNil(t, created.Message)
	assert.Equal(t, "Anime created successfully with ID 9001", *created.Message)

	fetched, err := provider.Execute(context.Background(), "anime.get",
		map[string]interface{}{"id": 9001}, reqCtx())
	require.NoError(t, err)
	require.True(t, fetched.Success)

	assert.Equal(t, "Frieren", fetched.Data["titre"])
	assert.Equal(t, "frieren", fetched.Data["niceUrl"])
	assert.EqualValues(t, 2023, fetched.Data["annee"])
	assert.EqualValues(t, 28, fetched.Data["nbEp"])
	assert.Equal(t, "Une elfe après la quête.", fetched.Data["synopsis"])
	assert.EqualValues(t, 9001, fetched.Data["idAnime"])
}

func TestAnimeBackendErrorBecomesFailedResult(t *testing.T) {
	api := &stubAPI{err: errors.New("API Error: 404 - anime not found")}
	provider := NewProvider(api)

	result, err := provider.Execute(context.Background(), "anime.get",
		map[string]interface{}{"id": 999}, reqCtx())
	require.NoError(t, err, "backend failures are result values, not errors")

	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Equal(t, "API Error: 404 - anime not found", *result.Error)
}

func TestAnimeUnknownTool(t *testing.T) {
	provider := NewProvider(&stubAPI{})

	result, err := provider.Execute(context.Background(), "anime.teleport", nil, reqCtx())
	require.NoError(t, err)
	assert.False(t, result.Success)
}
