// Package query provides page, search and equality-filter handling for GORM
// list queries.
package query

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Params holds parsed list parameters.
type Params struct {
	Page     int
	PageSize int
	// Search is matched case-insensitively against Config.SearchFields.
	Search string
	// Filters are equality conditions keyed by public filter name.
	Filters map[string]string
}

// Config defines entity-specific list behavior.
type Config struct {
	// SearchFields are the columns searched by Params.Search, OR-ed together.
	SearchFields []string
	// Filters maps public filter names to columns. Unknown filters are ignored.
	Filters map[string]string
	// DefaultSort is the ORDER BY clause.
	DefaultSort string
}

// Pagination metadata returned in paginated results.
type Pagination struct {
	Page       int `json:"current_page"`
	PageSize   int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"last_page"`
}

// Result is a paginated response.
type Result[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"meta"`
}
