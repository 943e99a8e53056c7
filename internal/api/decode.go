package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// ListParams are the query parameters every list endpoint accepts. Empty
// filter values are not sent.
type ListParams struct {
	Page    int
	Limit   int
	Search  string
	Filters map[string]string
}

func (p ListParams) Values() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	for k, v := range p.Filters {
		if v != "" {
			q.Set(k, v)
		}
	}
	return q
}

// Page is one page of a list endpoint.
type Page[T any] struct {
	Items      []T
	Page       int
	TotalPages int
	Total      int
	HasMore    bool
}

type pagination struct {
	Page        *int  `json:"page"`
	CurrentPage *int  `json:"currentPage"`
	TotalPages  *int  `json:"totalPages"`
	Pages       *int  `json:"pages"`
	Total       *int  `json:"total"`
	HasMore     *bool `json:"hasMore"`
}

func (p *pagination) merge(o pagination) {
	if p.Page == nil {
		p.Page = o.Page
	}
	if p.CurrentPage == nil {
		p.CurrentPage = o.CurrentPage
	}
	if p.TotalPages == nil {
		p.TotalPages = o.TotalPages
	}
	if p.Pages == nil {
		p.Pages = o.Pages
	}
	if p.Total == nil {
		p.Total = o.Total
	}
	if p.HasMore == nil {
		p.HasMore = o.HasMore
	}
}

// decodeList reads a list response. Items may sit under "data", "items" or one
// of the resource keys, or the body may be a bare array. Pagination may sit
// under "pagination" or at the top level and may name the page count
// "totalPages" or "pages".
func decodeList[T any](body []byte, requested int, keys ...string) (Page[T], error) {
	var out Page[T]
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return out, nil
	}
	if body[0] == '[' {
		if err := json.Unmarshal(body, &out.Items); err != nil {
			return out, fmt.Errorf("failed to decode list: %w", err)
		}
		out.Page, out.TotalPages, out.Total = 1, 1, len(out.Items)
		return out, nil
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return out, fmt.Errorf("failed to decode list: %w", err)
	}

	// Pagination fields may also sit next to the items.
	flat := [][]byte{body}
	itemsRaw, ok := firstArray(env, append([]string{"data", "items"}, keys...)...)
	if !ok {
		// {"data": {"items": [...], "pagination": {...}}}
		if inner := bytes.TrimSpace(env["data"]); len(inner) > 0 && inner[0] == '{' {
			var nested map[string]json.RawMessage
			if err := json.Unmarshal(inner, &nested); err == nil {
				if raw, found := firstArray(nested, append([]string{"items"}, keys...)...); found {
					itemsRaw = raw
					if p, has := nested["pagination"]; has {
						env["pagination"] = p
					}
					flat = append(flat, inner)
				}
			}
		}
	}
	if itemsRaw != nil {
		if err := json.Unmarshal(itemsRaw, &out.Items); err != nil {
			return out, fmt.Errorf("failed to decode list items: %w", err)
		}
	}

	var pg pagination
	if raw, ok := env["pagination"]; ok {
		if err := json.Unmarshal(raw, &pg); err != nil {
			return out, fmt.Errorf("failed to decode pagination: %w", err)
		}
	}
	for _, src := range flat {
		var top pagination
		if err := json.Unmarshal(src, &top); err == nil {
			pg.merge(top)
		}
	}

	out.Page = requested
	switch {
	case pg.Page != nil:
		out.Page = *pg.Page
	case pg.CurrentPage != nil:
		out.Page = *pg.CurrentPage
	}
	if out.Page < 1 {
		out.Page = 1
	}
	switch {
	case pg.TotalPages != nil:
		out.TotalPages = *pg.TotalPages
	case pg.Pages != nil:
		out.TotalPages = *pg.Pages
	default:
		out.TotalPages = 1
	}
	if pg.Total != nil {
		out.Total = *pg.Total
	} else {
		out.Total = len(out.Items)
	}
	if pg.HasMore != nil {
		out.HasMore = *pg.HasMore
	} else {
		out.HasMore = out.Page < out.TotalPages
	}
	return out, nil
}

func firstArray(env map[string]json.RawMessage, keys ...string) (json.RawMessage, bool) {
	for _, k := range keys {
		raw, ok := env[k]
		if !ok {
			continue
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) > 0 && raw[0] == '[' {
			return raw, true
		}
	}
	return nil, false
}

// decodeEntity reads a mutation response. It returns the entity when the body
// carries one at the top level, under "data", or under resourceKey. Any other
// shape (empty body, {"success":true}, a message) returns nil: the caller keeps
// its optimistic value.
func decodeEntity[T any](body []byte, resourceKey string) (*T, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return nil, nil
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if _, ok := env["id"]; ok {
		return unmarshalEntity[T](body)
	}
	for _, key := range []string{"data", resourceKey} {
		raw, ok := env[key]
		if !ok || key == "" {
			continue
		}
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(raw, &inner); err != nil {
			continue
		}
		if _, ok := inner["id"]; ok {
			return unmarshalEntity[T](raw)
		}
	}
	return nil, nil
}

func unmarshalEntity[T any](raw []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to decode entity: %w", err)
	}
	return &v, nil
}
