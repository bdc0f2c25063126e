package handlers

import (
	"errors"
	"strconv"
	"strings"

	"taskman/internal/store"
)

// parseTaskListQuery turns the raw /tasks query parameters into a store
// query. Unparseable limit/skip values are ignored rather than rejected;
// an unknown sort field is an error because the column name ends up in SQL.
func parseTaskListQuery(rawCompleted, rawSortBy, rawLimit, rawSkip string) (store.ListQuery, error) {
	var query store.ListQuery

	if raw := strings.TrimSpace(rawCompleted); raw != "" {
		completed := raw == "true"
		query.Completed = &completed
	}

	if raw := strings.TrimSpace(rawSortBy); raw != "" {
		parts := strings.SplitN(raw, ":", 2)

		column, ok := store.SortColumnForField(parts[0])
		if !ok {
			return store.ListQuery{}, errors.New("Invalid sort field!")
		}
		query.SortColumn = column
		query.SortDesc = len(parts) == 2 && parts[1] == "desc"
	}

	if limit, err := strconv.Atoi(strings.TrimSpace(rawLimit)); err == nil && limit > 0 {
		query.Limit = limit
	}
	if skip, err := strconv.Atoi(strings.TrimSpace(rawSkip)); err == nil && skip > 0 {
		query.Skip = skip
	}

	return query, nil
}
