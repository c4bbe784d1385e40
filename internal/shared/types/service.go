package types

// Category represents tool provider categories
type Category string

const (
	CategoryAnime    Category = "anime"
	CategoryManga    Category = "manga"
	CategorySeason   Category = "season"
	CategoryBusiness Category = "business"
	CategoryMedia    Category = "media"
	CategoryExternal Category = "external"
)

// Service represents a tool provider definition
type Service struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Category     Category `json:"category"`
	Capabilities []string `json:"capabilities"`
	Tools        []Tool   `json:"tools"`
}

// Tool represents a single model-invocable operation
type Tool struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Returns     string      `json:"returns"`
}

// Parameter represents a tool parameter with its validation constraints
type Parameter struct {
	Name        string        `json:"name"`
	Type        string        `json:"type"` // "string", "integer", "number", "boolean"
	Description string        `json:"description"`
	Required    bool          `json:"required"`
	Default     interface{}   `json:"default,omitempty"`
	Minimum     *float64      `json:"minimum,omitempty"`
	Maximum     *float64      `json:"maximum,omitempty"`
	Enum        []interface{} `json:"enum,omitempty"`
}

// Context provides execution context for tool calls. The auth token is
// forwarded verbatim to every backend call; validation is the backend's
// responsibility.
type Context struct {
	AuthToken string
	UserID    string
}

// Result represents a tool execution result
type Result struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *string                `json:"error,omitempty"`
	Message *string                `json:"message,omitempty"`
}
