package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Parse extracts list params from URL values: page, per_page, search and
// one value per configured filter name.
func Parse(q url.Values, config Config) Params {
	params := Params{
		Page:     max(intOrDefault(q.Get("page"), 1), 1),
		PageSize: clamp(intOrDefault(q.Get("per_page"), DefaultPageSize), 1, MaxPageSize),
		Search:   strings.TrimSpace(q.Get("search")),
	}
	for name := range config.Filters {
		if v := q.Get(name); v != "" {
			if params.Filters == nil {
				params.Filters = make(map[string]string)
			}
			params.Filters[name] = v
		}
	}
	return params
}

func intOrDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
