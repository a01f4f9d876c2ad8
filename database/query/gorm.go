package query

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"gorm.io/gorm"
)

// likeEscaper quotes the LIKE wildcards in a search term. Conditions pair
// it with ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Where returns a GORM scope with the search and filter conditions of p.
// Filters apply in name order so the generated SQL is stable.
func (c Config) Where(p Params) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if p.Search != "" && len(c.SearchFields) > 0 {
			like := "%" + likeEscaper.Replace(strings.ToLower(p.Search)) + "%"
			conds := make([]string, len(c.SearchFields))
			args := make([]any, len(c.SearchFields))
			for i, col := range c.SearchFields {
				conds[i] = "LOWER(" + col + `) LIKE ? ESCAPE '\'`
				args[i] = like
			}
			db = db.Where(strings.Join(conds, " OR "), args...)
		}
		for _, name := range slices.Sorted(maps.Keys(p.Filters)) {
			if col, ok := c.Filters[name]; ok {
				db = db.Where(col+" = ?", p.Filters[name])
			}
		}
		return db
	}
}

// Page counts the rows matching p on db, which the caller has already
// scoped to an owner, and loads the requested page in DefaultSort order.
func Page[T any](db *gorm.DB, p Params, c Config) (*Result[T], error) {
	q := db.Session(&gorm.Session{}).Scopes(c.Where(p))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}

	page := max(p.Page, 1)
	size := p.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	if c.DefaultSort != "" {
		q = q.Order(c.DefaultSort)
	}
	rows := make([]T, 0, size)
	if err := q.Offset((page - 1) * size).Limit(size).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("page %d: %w", page, err)
	}

	return &Result[T]{
		Data: rows,
		Pagination: Pagination{
			Page:       page,
			PageSize:   size,
			Total:      int(total),
			TotalPages: max(int((total+int64(size)-1)/int64(size)), 1),
		},
	}, nil
}
