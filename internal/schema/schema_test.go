package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/animekun/chatd/internal/shared/types"
)

func listTool() types.Tool {
	return types.Tool{
		ID: "anime.list",
		Parameters: append(Pagination(),
			types.Parameter{Name: "search", Type: "string", Description: "Search query"},
			StatusField(false),
			types.Parameter{Name: "sortOrder", Type: "string", Enum: []interface{}{"asc", "desc"}},
		),
	}
}

func TestValidateAppliesDefaults(t *testing.T) {
	cleaned, err := Validate(listTool(), map[string]interface{}{})
	require.NoError(t, err)

	assert.Equal(t, 1, cleaned["page"])
	assert.Equal(t, 20, cleaned["limit"])
	_, hasSearch := cleaned["search"]
	assert.False(t, hasSearch, "optional field without default must stay absent")
}

func TestValidateRequired(t *testing.T) {
	tool := types.Tool{
		ID: "anime.updateStatus",
		Parameters: []types.Parameter{
			IDField("id", "Anime ID"),
			StatusField(true),
		},
	}

	_, err := Validate(tool, map[string]interface{}{"id": 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "statut")

	cleaned, err := Validate(tool, map[string]interface{}{"id": float64(5), "statut": float64(1)})
	require.NoError(t, err)
	assert.Equal(t, 5, cleaned["id"])
	assert.Equal(t, 1, cleaned["statut"])
}

func TestValidateBounds(t *testing.T) {
	tool := listTool()

	_, err := Validate(tool, map[string]interface{}{"limit": float64(500)})
	assert.Error(t, err, "limit above maximum must be rejected")

	_, err = Validate(tool, map[string]interface{}{"page": float64(0)})
	assert.Error(t, err, "page below minimum must be rejected")

	_, err = Validate(tool, map[string]interface{}{"statut": float64(3)})
	assert.Error(t, err)
}

func TestValidateEnum(t *testing.T) {
	tool := listTool()

	_, err := Validate(tool, map[string]interface{}{"sortOrder": "sideways"})
	assert.Error(t, err)

	cleaned, err := Validate(tool, map[string]interface{}{"sortOrder": "desc"})
	require.NoError(t, err)
	assert.Equal(t, "desc", cleaned["sortOrder"])
}

func TestValidateRejectsFractionalInteger(t *testing.T) {
	_, err := Validate(listTool(), map[string]interface{}{"page": 1.5})
	assert.Error(t, err)
}

func TestValidateDropsUnknownKeys(t *testing.T) {
	cleaned, err := Validate(listTool(), map[string]interface{}{"search": "naruto", "bogus": true})
	require.NoError(t, err)

	assert.Equal(t, "naruto", cleaned["search"])
	_, ok := cleaned["bogus"]
	assert.False(t, ok)
}

func TestJSONSchemaShape(t *testing.T) {
	tool := types.Tool{
		ID: "season.create",
		Parameters: []types.Parameter{
			{Name: "annee", Type: "integer", Required: true, Minimum: Bound(2000), Maximum: Bound(2100)},
			{Name: "saison", Type: "integer", Required: true, Minimum: Bound(1), Maximum: Bound(4)},
			{Name: "statut", Type: "integer", Default: 1},
		},
	}

	js := JSONSchema(tool)
	assert.Equal(t, "object", js["type"])

	props, ok := js["properties"].(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, props, 3)

	required, ok := js["required"].([]string)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"annee", "saison"}, required)
}
