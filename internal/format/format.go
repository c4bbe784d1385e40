// Package format renders tool-result JSON as French chat text. It is
// the safety net for model runs that echo a raw result envelope
// instead of narrating it; the heuristics and wording mirror what the
// site's admins are used to reading.
package format

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// envelopePattern recognizes text that is a raw result envelope rather
// than prose: an object literal mentioning a "success" field.
var envelopePattern = regexp.MustCompile(`(?s)^\s*\{.*"success".*\}`)

var statusLabels = map[int]string{
	0: "❌ Bloquée",
	1: "✅ Affichée",
	2: "🟡 En attente",
}

var seasonIcons = map[int]string{1: "❄️", 2: "🌸", 3: "☀️", 4: "🍂"}

var seasonLabels = map[int]string{
	1: "Hiver",
	2: "Printemps",
	3: "Été",
	4: "Automne",
}

var seasonLabelsEN = map[string]string{
	"winter": "Hiver",
	"spring": "Printemps",
	"summer": "Été",
	"fall":   "Automne",
}

// EnsureUserFriendly returns response unchanged when it reads as
// prose, and a rendered French summary when it is a raw result
// envelope. Unparseable input always comes back untouched.
func EnsureUserFriendly(response string) string {
	if !envelopePattern.MatchString(response) {
		return response
	}

	var env map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(response)), &env); err != nil {
		return response
	}

	success, _ := env["success"].(bool)
	data, _ := env["data"].(map[string]interface{})
	dataList, dataIsList := env["data"].([]interface{})

	switch {
	case data != nil && isList(data["items"]):
		return AnimeList(success, data)

	case dataIsList && firstHas(dataList, "saison"):
		return SeasonList(success, dataList)

	case isList(env["comparisons"]) && env["season"] != nil && env["year"] != nil:
		return Seasonal(env)

	case data != nil && isList(data["animes"]):
		return AniList(success, data)

	case success && str(env, "message") != "":
		return SuccessMessage(str(env, "message"), data)

	case !success && str(env, "error") != "":
		return ErrorMessage(str(env, "error"))
	}

	return "✅ Opération réussie.\n\n_Note : Données reçues mais format non reconnu pour un affichage optimal._"
}

// AnimeList renders a catalog listing: title, year, format, episode
// count, moderation status and database ID, capped at ten rows.
func AnimeList(success bool, data map[string]interface{}) string {
	if !success || data == nil {
		return "❌ Aucun résultat trouvé."
	}

	items, _ := data["items"].([]interface{})
	if len(items) == 0 {
		return "Aucun anime trouvé dans la base de données."
	}

	total := len(items)
	if t, ok := data["total"].(float64); ok && t > 0 {
		total = int(t)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "J'ai trouvé **%d anime(s)** :\n\n", total)

	for i, item := range items {
		if i >= 10 {
			break
		}
		anime, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		titre := str(anime, "titreFr")
		if titre == "" {
			titre = str(anime, "titre")
		}
		status, ok := statusLabels[num(anime, "statut")]
		if !ok {
			status = "❓ Inconnu"
		}

		fmt.Fprintf(&b, "%d. **%s** (%d)\n", i+1, titre, num(anime, "annee"))
		format := str(anime, "format")
		if format == "" {
			format = "N/A"
		}
		fmt.Fprintf(&b, "   📺 Type : %s", format)
		if nbEp := num(anime, "nbEp"); nbEp > 0 {
			plural := ""
			if nbEp > 1 {
				plural = "s"
			}
			fmt.Fprintf(&b, " • %d épisode%s", nbEp, plural)
		}
		fmt.Fprintf(&b, "\n   📊 Statut : %s\n", status)
		fmt.Fprintf(&b, "   🆔 ID : %v\n\n", id(anime, "idAnime"))
	}

	if total > 10 {
		fmt.Fprintf(&b, "\n_Affichage des 10 premiers résultats sur %d._\n", total)
		b.WriteString("_Affinez votre recherche pour voir plus de résultats._")
	}

	return b.String()
}

// SeasonList renders the seasons overview with visibility flags.
func SeasonList(success bool, seasons []interface{}) string {
	if !success || len(seasons) == 0 {
		return "Aucune saison trouvée dans la base de données."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Voici les **%d saison(s)** disponibles :\n\n", len(seasons))

	for i, item := range seasons {
		season, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		code := num(season, "saison")
		icon, ok := seasonIcons[code]
		if !ok {
			icon = "📅"
		}
		name, ok := seasonLabels[code]
		if !ok {
			name = "Saison"
		}
		status := "🔒 Cachée"
		if num(season, "statut") == 1 {
			status = "✅ Visible"
		}

		fmt.Fprintf(&b, "%d. %s **%s %d**\n", i+1, icon, name, num(season, "annee"))
		fmt.Fprintf(&b, "   🆔 ID : %v • %s\n\n", id(season, "id_saison", "idSaison"), status)
	}

	return b.String()
}

// AniList renders external search hits, capped at five rows.
func AniList(success bool, data map[string]interface{}) string {
	animes, _ := data["animes"].([]interface{})
	if !success || len(animes) == 0 {
		return "Aucun résultat trouvé sur AniList pour cette recherche."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "J'ai trouvé **%d anime(s)** sur AniList :\n\n", len(animes))

	for i, item := range animes {
		if i >= 5 {
			break
		}
		anime, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		title := firstStr(anime, "title", "titre")
		fmt.Fprintf(&b, "%d. **%s**", i+1, title)
		if orig := firstStr(anime, "titleOriginal", "titreOrig"); orig != "" {
			fmt.Fprintf(&b, " (%s)", orig)
		}
		b.WriteString("\n")
		if year := firstNum(anime, "year", "annee"); year > 0 {
			fmt.Fprintf(&b, "   📅 Année : %d\n", year)
		}
		if eps := firstNum(anime, "episodes", "nbEpisodes"); eps > 0 {
			fmt.Fprintf(&b, "   📺 Épisodes : %d\n", eps)
		}
		if studio := firstStr(anime, "studio", "studios"); studio != "" {
			fmt.Fprintf(&b, "   🎬 Studio : %s\n", studio)
		}
		b.WriteString("\n")
	}

	if len(animes) > 5 {
		fmt.Fprintf(&b, "\n_Affichage des 5 premiers résultats sur %d._", len(animes))
	}

	return b.String()
}

// Seasonal renders an AniList seasonal chart split between entries
// already in the database and entries still missing.
func Seasonal(env map[string]interface{}) string {
	comparisons, _ := env["comparisons"].([]interface{})
	if len(comparisons) == 0 {
		return "Aucun anime trouvé sur AniList pour cette saison."
	}

	seasonName := fmt.Sprint(env["season"])
	if label, ok := seasonLabelsEN[seasonName]; ok {
		seasonName = label
	}
	total := len(comparisons)
	if t, ok := env["total"].(float64); ok && t > 0 {
		total = int(t)
	}

	var inDb, notInDb []map[string]interface{}
	for _, item := range comparisons {
		c, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if exists, _ := c["existsInDb"].(bool); exists {
			inDb = append(inDb, c)
		} else {
			notInDb = append(notInDb, c)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📺 **%s %v** - %d anime(s) trouvés sur AniList\n\n", seasonName, env["year"], total)

	if len(inDb) > 0 {
		fmt.Fprintf(&b, "✅ **Déjà dans la base (%d):**\n", len(inDb))
		for i, item := range inDb {
			if i >= 10 {
				break
			}
			fmt.Fprintf(&b, "%d. %s", i+1, anilistTitle(item))
			if dbData, ok := item["dbData"].(map[string]interface{}); ok {
				fmt.Fprintf(&b, " (ID: %v)", id(dbData, "idAnime"))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(notInDb) > 0 {
		fmt.Fprintf(&b, "➕ **Pas encore dans la base (%d):**\n", len(notInDb))
		for i, item := range notInDb {
			if i >= 10 {
				break
			}
			fmt.Fprintf(&b, "%d. %s", i+1, anilistTitle(item))
			if ani, ok := item["anilistData"].(map[string]interface{}); ok {
				if format := str(ani, "format"); format != "" {
					fmt.Fprintf(&b, " [%s]", format)
				}
				if eps := num(ani, "episodes"); eps > 0 {
					fmt.Fprintf(&b, " - %d ép.", eps)
				}
			}
			b.WriteString("\n")
		}
	}

	if len(comparisons) > 20 {
		fmt.Fprintf(&b, "\n_Affichage des 20 premiers résultats sur %d._", len(comparisons))
	}

	return b.String()
}

// SuccessMessage renders a confirmation plus its detail fields, sorted
// for stable output.
func SuccessMessage(message string, details map[string]interface{}) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ %s\n", message)

	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "   • %s : %v\n", k, details[k])
	}

	return b.String()
}

// ErrorMessage renders a tool failure.
func ErrorMessage(errText string) string {
	return fmt.Sprintf("❌ Une erreur s'est produite\n   Détails : %s", errText)
}

func isList(v interface{}) bool {
	_, ok := v.([]interface{})
	return ok
}

func firstHas(list []interface{}, key string) bool {
	if len(list) == 0 {
		return false
	}
	m, ok := list[0].(map[string]interface{})
	if !ok {
		return false
	}
	_, ok = m[key]
	return ok
}

func str(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func num(m map[string]interface{}, key string) int {
	if f, ok := m[key].(float64); ok {
		return int(f)
	}
	return 0
}

func id(m map[string]interface{}, keys ...string) interface{} {
	for _, k := range append(keys, "id") {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return "?"
}

func firstStr(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s := str(m, k); s != "" {
			return s
		}
	}
	return ""
}

func firstNum(m map[string]interface{}, keys ...string) int {
	for _, k := range keys {
		if n := num(m, k); n != 0 {
			return n
		}
	}
	return 0
}

func anilistTitle(item map[string]interface{}) string {
	ani, ok := item["anilistData"].(map[string]interface{})
	if !ok {
		return "?"
	}
	title, ok := ani["title"].(map[string]interface{})
	if !ok {
		return firstStr(ani, "title")
	}
	if romaji := str(title, "romaji"); romaji != "" {
		return romaji
	}
	return str(title, "english")
}
