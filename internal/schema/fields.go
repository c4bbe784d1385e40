package schema

import "github.com/animekun/chatd/internal/shared/types"

// Shared field builders. The anime, manga and business catalogs repeat
// the same pagination, status and year shapes; defining them once keeps
// the ~15 near-identical schemas from drifting.

// Bound returns a pointer for Parameter.Minimum / Maximum.
func Bound(v float64) *float64 {
	return &v
}

// Pagination returns the standard page/limit parameter pair.
func Pagination() []types.Parameter {
	return []types.Parameter{
		{Name: "page", Type: "integer", Description: "Page number for pagination", Minimum: Bound(1), Default: 1},
		{Name: "limit", Type: "integer", Description: "Number of results per page", Minimum: Bound(1), Maximum: Bound(100), Default: 20},
	}
}

// StatusField returns the moderation status parameter
// (0=blocked, 1=published, 2=pending).
func StatusField(required bool) types.Parameter {
	return types.Parameter{
		Name:        "statut",
		Type:        "integer",
		Description: "Status: 0=blocked, 1=published, 2=pending",
		Required:    required,
		Minimum:     Bound(0),
		Maximum:     Bound(2),
	}
}

// CompletionField returns the fiche completion flag (0=incomplete, 1=complete).
func CompletionField() types.Parameter {
	return types.Parameter{
		Name:        "ficheComplete",
		Type:        "integer",
		Description: "Completion status: 0=incomplete, 1=complete",
		Minimum:     Bound(0),
		Maximum:     Bound(1),
	}
}

// YearField returns a release-year parameter bounded to plausible values.
func YearField(name, description string, required bool) types.Parameter {
	return types.Parameter{
		Name:        name,
		Type:        "integer",
		Description: description,
		Required:    required,
		Minimum:     Bound(1900),
		Maximum:     Bound(2100),
	}
}

// IDField returns a positive integer identifier parameter.
func IDField(name, description string) types.Parameter {
	return types.Parameter{
		Name:        name,
		Type:        "integer",
		Description: description,
		Required:    true,
		Minimum:     Bound(1),
	}
}
