package server

import (
	"net/http"
	"strings"

	"lnr/internal/store"
)

func parseListFilter(r *http.Request) (store.ListFilter, error) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		return store.ListFilter{}, err
	}

	statuses, err := normalizeStatuses(splitCSV(r.URL.Query().Get("status")))
	if err != nil {
		return store.ListFilter{}, err
	}

	return store.ListFilter{
		Search:     strings.TrimSpace(r.URL.Query().Get("q")),
		Statuses:   statuses,
		AssigneeID: strings.TrimSpace(r.URL.Query().Get("assignee_id")),
		Limit:      limit,
	}, nil
}
