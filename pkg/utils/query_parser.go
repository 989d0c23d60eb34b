package utils

import (
	"net/url"
	"strconv"
	"strings"

	"helpdesk-system/pkg/types"
)

// ParseFilterFromQuery maps URL query parameters onto the shared Filter
// shape: filter[key]=value pairs, search, sort[field]=asc|desc, limit,
// offset, page.
func ParseFilterFromQuery(query url.Values) types.Filter {
	f := types.Filter{
		Sort:   make(map[string]string),
		Filter: make(map[string]interface{}),
		Limit:  DefaultLimit,
		Page:   1,
	}

	for key, values := range query {
		if len(values) == 0 {
			continue
		}
		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") {
			f.Filter[key[7:len(key)-1]] = values[0]
		}
		if strings.HasPrefix(key, "sort[") && strings.HasSuffix(key, "]") {
			order := strings.ToLower(values[0])
			if order != "asc" && order != "desc" {
				order = "desc"
			}
			f.Sort[key[5:len(key)-1]] = order
		}
	}

	if search := query.Get("search"); search != "" {
		f.Search = search
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			if l > MaxLimit {
				l = MaxLimit
			}
			f.Limit = l
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			f.Offset = o
			if f.Limit > 0 {
				f.Page = o/f.Limit + 1
			}
		}
	}
	if pageStr := query.Get("page"); pageStr != "" && f.Offset == 0 {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			f.Page = p
			f.Offset = (p - 1) * f.Limit
		}
	}
	f.WithPagination, _ = strconv.ParseBool(query.Get("withPagination"))

	return f
}
