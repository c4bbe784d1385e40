package season

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAPI struct {
	seasons  interface{}
	created  interface{}
	posted   []string
	lastBody interface{}
	deleted  []string
	patched  []string
}

func (s *stubAPI) Get(ctx context.Context, path string, query map[string]interface{}, authToken string) (interface{}, error) {
	return s.seasons, nil
}

func (s *stubAPI) Post(ctx context.Context, path string, body interface{}, authToken string) (interface{}, error) {
	s.posted = append(s.posted, path)
	s.lastBody = body
	return s.created, nil
}

func (s *stubAPI) Patch(ctx context.Context, path string, body interface{}, authToken string) (interface{}, error) {
	s.patched = append(s.patched, path)
	s.lastBody = body
	return map[string]interface{}{}, nil
}

func (s *stubAPI) Delete(ctx context.Context, path string, authToken string) (interface{}, error) {
	s.deleted = append(s.deleted, path)
	return nil, nil
}

func existingSeasons() interface{} {
	return []interface{}{
		map[string]interface{}{"id": float64(3), "annee": float64(2026), "saison": float64(1), "statut": float64(1)},
		map[string]interface{}{"id": float64(4), "annee": float64(2026), "saison": float64(2), "statut": float64(1)},
	}
}

func TestSeasonCreateDuplicateGuard(t *testing.T) {
	api := &stubAPI{seasons: existingSeasons()}
	provider := NewProvider(api)

	result, err := provider.Execute(context.Background(), "season.create",
		map[string]interface{}{"annee": 2026, "saison": 1, "statut": 1}, nil)
	require.NoError(t, err)

	assert.False(t, result.Success)
	require.NotNil(t, result.Error)
	assert.Contains(t, *result.Error, "already exists with ID 3")
	assert.Contains(t, *result.Error, "hiver")
	assert.Empty(t, api.posted, "duplicate must never reach the backend")
}

func TestSeasonCreateNewSeason(t *testing.T) {
	api := &stubAPI{
		seasons: existingSeasons(),
		created: map[string]interface{}{"id": float64(5)},
	}
	provider := NewProvider(api)

	result, err := provider.Execute(context.Background(), "season.create",
		map[string]interface{}{"annee": 2026, "saison": 3, "statut": 1}, nil)
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.Len(t, api.posted, 1)
	assert.Equal(t, "/api/admin/seasons", api.posted[0])
	require.NotNil(t, result.Message)
	assert.Equal(t, "Season été 2026 created with ID 5", *result.Message)
}

func TestSeasonCreateGuardHandlesWrappedListing(t *testing.T) {
	api := &stubAPI{seasons: map[string]interface{}{"seasons": existingSeasons().([]interface{})}}
	provider := NewProvider(api)

	result, err := provider.Execute(context.Background(), "season.create",
		map[string]interface{}{"annee": 2026, "saison": 2}, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
}

func TestSeasonAddAnime(t *testing.T) {
	api := &stubAPI{created: map[string]interface{}{}}
	provider := NewProvider(api)

	result, err := provider.Execute(context.Background(), "season.addAnime",
		map[string]interface{}{"seasonId": 5, "animeId": 172}, nil)
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.Len(t, api.posted, 1)
	assert.Equal(t, "/api/admin/seasons/5/animes", api.posted[0])
	assert.Equal(t, map[string]interface{}{"animeId": 172}, api.lastBody)
}

func TestSeasonRemoveAnime(t *testing.T) {
	api := &stubAPI{}
	provider := NewProvider(api)

	result, err := provider.Execute(context.Background(), "season.removeAnime",
		map[string]interface{}{"seasonId": 5, "animeId": 172}, nil)
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.Len(t, api.deleted, 1)
	assert.Equal(t, "/api/admin/seasons/5/animes/172", api.deleted[0])
}

func TestSeasonUpdateStatus(t *testing.T) {
	api := &stubAPI{}
	provider := NewProvider(api)

	result, err := provider.Execute(context.Background(), "season.updateStatus",
		map[string]interface{}{"id": 5, "statut": 0}, nil)
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.Len(t, api.patched, 1)
	assert.Equal(t, "/api/admin/seasons/5", api.patched[0])
	require.NotNil(t, result.Message)
	assert.Contains(t, *result.Message, "hidden")
}
