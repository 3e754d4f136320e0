package api

import (
	"net/url"
	"strings"
)

// TimeRange bounds an analysis request, both months inclusive (YYYY-MM).
type TimeRange struct {
	StartMonth string `json:"start_month"`
	EndMonth   string `json:"end_month"`
}

// OptionsTimeRange is the span of months data exists for.
type OptionsTimeRange struct {
	MinMonth string `json:"min_month"`
	MaxMonth string `json:"max_month"`
}

// Options lists the selectable filter values for a KPI domain.
type Options struct {
	TimeRange OptionsTimeRange `json:"time_range"`
	ODMs      []string         `json:"odms"`
	Segments  []string         `json:"segments"`
	Models    []string         `json:"models"`
}

// OptionsFilter narrows an options lookup; any combination may be set.
type OptionsFilter struct {
	Segments []string
	ODMs     []string
	Models   []string
}

// query renders the filter as comma-joined query params, omitting empties.
func (f OptionsFilter) query() url.Values {
	q := url.Values{}
	if len(f.Segments) > 0 {
		q.Set("segments", strings.Join(f.Segments, ","))
	}
	if len(f.ODMs) > 0 {
		q.Set("odms", strings.Join(f.ODMs, ","))
	}
	if len(f.Models) > 0 {
		q.Set("models", strings.Join(f.Models, ","))
	}
	return q
}

// AnalyzeFilters selects the entities an analysis covers.
type AnalyzeFilters struct {
	ODMs     []string `json:"odms,omitempty"`
	Segments []string `json:"segments,omitempty"`
	Models   []string `json:"models,omitempty"`
}

// AnalyzeMeta describes the data an analysis was computed over.
type AnalyzeMeta struct {
	DataAsOf  string    `json:"data_as_of"`
	TimeRange TimeRange `json:"time_range"`
}

// TopSort orders RA top-N tables by claim count or RA rate.
type TopSort string

const (
	SortByClaim TopSort = "claim"
	SortByRA    TopSort = "ra"
)

// Pagination selects one page of a detail listing.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}
