package format

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnsureUserFriendlyPassthrough(t *testing.T) {
	prose := "J'ai trouvé **2 anime(s)** pour vous !"
	assert.Equal(t, prose, EnsureUserFriendly(prose))

	almostJSON := `{"success": true, "data":` // truncated, unparseable
	assert.Equal(t, almostJSON, EnsureUserFriendly(almostJSON))

	noSuccessField := `{"data": {"items": []}}`
	assert.Equal(t, noSuccessField, EnsureUserFriendly(noSuccessField))
}

func TestEnsureUserFriendlyAnimeList(t *testing.T) {
	raw := `{
		"success": true,
		"data": {
			"items": [
				{"idAnime": 172, "titre": "Naruto", "annee": 2002, "nbEp": 220, "format": "Série TV", "statut": 1},
				{"idAnime": 1305, "titre": "Naruto Shippûden", "titreFr": "Naruto Shippûden", "annee": 2007, "nbEp": 500, "format": "Série TV", "statut": 2}
			],
			"total": 2
		}
	}`

	out := EnsureUserFriendly(raw)

	assert.NotContains(t, out, `"success"`)
	assert.Contains(t, out, "2 anime(s)")
	assert.Equal(t, 1, strings.Count(out, "**Naruto**"))
	assert.Contains(t, out, "✅ Affichée")
	assert.Contains(t, out, "🟡 En attente")
	assert.Contains(t, out, "ID : 172")
	assert.Contains(t, out, "220 épisodes")
}

func TestEnsureUserFriendlyAnimeListCapsAtTen(t *testing.T) {
	var items []string
	for i := 0; i < 12; i++ {
		items = append(items, fmt.Sprintf(`{"idAnime": %d, "titre": "A", "annee": 2000, "statut": 1}`, i+1))
	}
	raw := `{"success": true, "data": {"items": [` + strings.Join(items, ",") + `], "total": 12}}`

	out := EnsureUserFriendly(raw)
	assert.Contains(t, out, "Affichage des 10 premiers résultats sur 12")
}

func TestEnsureUserFriendlySeasonList(t *testing.T) {
	raw := `{
		"success": true,
		"data": [
			{"id_saison": 3, "annee": 2025, "saison": 1, "statut": 1},
			{"id_saison": 4, "annee": 2025, "saison": 3, "statut": 0}
		]
	}`

	out := EnsureUserFriendly(raw)
	assert.Contains(t, out, "2 saison(s)")
	assert.Contains(t, out, "❄️ **Hiver 2025**")
	assert.Contains(t, out, "☀️ **Été 2025**")
	assert.Contains(t, out, "✅ Visible")
	assert.Contains(t, out, "🔒 Cachée")
}

func TestEnsureUserFriendlyAniList(t *testing.T) {
	raw := `{
		"success": true,
		"data": {
			"animes": [
				{"title": "Frieren", "titleOriginal": "葬送のフリーレン", "year": 2023, "episodes": 28, "studio": "Madhouse"}
			]
		}
	}`

	out := EnsureUserFriendly(raw)
	assert.Contains(t, out, "1 anime(s)** sur AniList")
	assert.Contains(t, out, "**Frieren**")
	assert.Contains(t, out, "Année : 2023")
	assert.Contains(t, out, "Épisodes : 28")
	assert.Contains(t, out, "Studio : Madhouse")
}

func TestEnsureUserFriendlySeasonal(t *testing.T) {
	raw := `{
		"success": true,
		"season": "winter",
		"year": 2026,
		"total": 2,
		"comparisons": [
			{"existsInDb": true, "anilistData": {"title": {"romaji": "Sousou no Frieren"}}, "dbData": {"idAnime": 9001}},
			{"existsInDb": false, "anilistData": {"title": {"romaji": "New Show"}, "format": "TV", "episodes": 12}}
		]
	}`

	out := EnsureUserFriendly(raw)
	assert.Contains(t, out, "**Hiver 2026**")
	assert.Contains(t, out, "Déjà dans la base (1)")
	assert.Contains(t, out, "Sousou no Frieren (ID: 9001)")
	assert.Contains(t, out, "Pas encore dans la base (1)")
	assert.Contains(t, out, "New Show [TV] - 12 ép.")
}

func TestEnsureUserFriendlyGenericSuccessAndError(t *testing.T) {
	success := `{"success": true, "message": "Anime créé", "data": {"id": 42}}`
	out := EnsureUserFriendly(success)
	assert.Contains(t, out, "✅ Anime créé")
	assert.Contains(t, out, "id : 42")

	failure := `{"success": false, "error": "API Error: 404 - not found"}`
	out = EnsureUserFriendly(failure)
	assert.Contains(t, out, "❌ Une erreur s'est produite")
	assert.Contains(t, out, "API Error: 404 - not found")
}

func TestEnsureUserFriendlyUnknownShape(t *testing.T) {
	out := EnsureUserFriendly(`{"success": true, "data": {"weird": 1}}`)
	assert.Contains(t, out, "Opération réussie")
}
