// Package pagination inspects paginated EmailBison responses and reports
// whether more pages must be fetched.
//
// Two envelope shapes coexist in the API: metadata nested under "meta"
// (current_page, last_page, total, per_page) and flat top-level fields
// (page, total, per_page or perPage). Advise accepts either, or neither,
// and never fails.
package pagination

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// DefaultPerPage is assumed when a response does not state its page size.
const DefaultPerPage = 15

// MaxListedPages bounds RemainingPages. Page counts come from the response
// and from the caller's per_page, so they can be arbitrarily large.
const MaxListedPages = 20

// Verdict is the completeness report for one response page.
type Verdict struct {
	CurrentPage     int   `json:"currentPage"`
	LastPage        int   `json:"lastPage"`
	Total           int   `json:"total"`
	PerPage         int   `json:"perPage"`
	ItemsOnThisPage int   `json:"itemsOnThisPage"`
	HasMore         bool  `json:"hasMore"`
	// RemainingPages lists at most MaxListedPages of the pages after
	// CurrentPage up to LastPage.
	RemainingPages []int `json:"remainingPages,omitempty"`
}

// PagesLeft is the number of pages after CurrentPage up to LastPage.
func (v Verdict) PagesLeft() int {
	if v.LastPage <= v.CurrentPage {
		return 0
	}
	return v.LastPage - v.CurrentPage
}

// Truncated reports whether RemainingPages omits some of the pages left.
func (v Verdict) Truncated() bool {
	return v.PagesLeft() > len(v.RemainingPages)
}

// NextPage returns the page to fetch next, or 0 when this is the last page.
func (v Verdict) NextPage() int {
	if !v.HasMore {
		return 0
	}
	return v.CurrentPage + 1
}

// Advise computes the verdict for payload. Non-object payloads yield the
// single-page default.
func Advise(payload any) Verdict {
	root, _ := payload.(map[string]any)
	meta, _ := root["meta"].(map[string]any)
	links, _ := root["links"].(map[string]any)

	v := Verdict{
		CurrentPage: first(1, lookup(meta, "current_page"), lookup(root, "page")),
		LastPage:    first(1, lookup(meta, "last_page")),
		Total:       first(0, lookup(meta, "total"), lookup(root, "total")),
		PerPage:     first(DefaultPerPage, lookup(meta, "per_page"), lookup(root, "per_page"), lookup(root, "perPage")),
	}
	if v.LastPage == 1 && v.Total > 0 && v.PerPage > 0 {
		v.LastPage = int(math.Ceil(float64(v.Total) / float64(v.PerPage)))
	}

	if data, ok := root["data"].([]any); ok {
		v.ItemsOnThisPage = len(data)
	}

	next, present := links["next"]
	v.HasMore = (present && next != nil) || v.CurrentPage < v.LastPage
	if v.HasMore {
		for p := v.CurrentPage + 1; p <= v.LastPage && len(v.RemainingPages) < MaxListedPages; p++ {
			v.RemainingPages = append(v.RemainingPages, p)
		}
	}
	return v
}

// IsEnvelope reports whether payload looks like a paginated list response.
func IsEnvelope(payload any) bool {
	root, ok := payload.(map[string]any)
	if !ok {
		return false
	}
	if _, ok := root["data"].([]any); !ok {
		return false
	}
	_, hasMeta := root["meta"].(map[string]any)
	_, hasLinks := root["links"].(map[string]any)
	_, hasPage := root["page"]
	_, hasTotal := root["total"]
	return hasMeta || hasLinks || hasPage || hasTotal
}

func lookup(m map[string]any, key string) any {
	if m == nil {
		return nil
	}
	return m[key]
}

// first returns the first candidate that converts to a positive integer,
// mirroring "a or b or default" on the raw values.
func first(fallback int, candidates ...any) int {
	for _, c := range candidates {
		if n, ok := toInt(c); ok && n != 0 {
			return n
		}
	}
	return fallback
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		if f, err := n.Float64(); err == nil {
			return int(f), true
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i, true
		}
	}
	return 0, false
}
