package api

import "context"

// RA (repair action rate) analysis payloads.

type RATrendPoint struct {
	Month   string   `json:"month"`
	RA      float64  `json:"ra"`
	RAClaim *float64 `json:"ra_claim,omitempty"`
	RAMM    *float64 `json:"ra_mm,omitempty"`
}

type RATopModel struct {
	Rank    int     `json:"rank"`
	Model   string  `json:"model"`
	RA      float64 `json:"ra"`
	RAClaim float64 `json:"ra_claim"`
	RAMM    float64 `json:"ra_mm"`
}

type RATopODM struct {
	Rank    int     `json:"rank"`
	ODM     string  `json:"odm"`
	RA      float64 `json:"ra"`
	RAClaim float64 `json:"ra_claim"`
	RAMM    float64 `json:"ra_mm"`
}

type RATopIssue struct {
	Rank  int      `json:"rank"`
	Issue string   `json:"issue"`
	Count int      `json:"count"`
	Share *float64 `json:"share,omitempty"`
}

type RAMonthlyTopModels struct {
	Month string       `json:"month"`
	Items []RATopModel `json:"items"`
}

type RAMonthlyTopODMs struct {
	Month string     `json:"month"`
	Items []RATopODM `json:"items"`
}

type RAMonthlyTopIssues struct {
	Month string       `json:"month"`
	Items []RATopIssue `json:"items"`
}

type RAODMPieItem struct {
	ODM     string   `json:"odm"`
	RA      float64  `json:"ra"`
	Share   float64  `json:"share"`
	RAClaim *float64 `json:"ra_claim,omitempty"`
	RAMM    *float64 `json:"ra_mm,omitempty"`
}

type RASegmentPieItem struct {
	Segment string   `json:"segment"`
	RA      float64  `json:"ra"`
	Share   float64  `json:"share"`
	RAClaim *float64 `json:"ra_claim,omitempty"`
	RAMM    *float64 `json:"ra_mm,omitempty"`
}

type RAModelPieItem struct {
	Model   string   `json:"model"`
	RA      float64  `json:"ra"`
	Share   float64  `json:"share"`
	RAClaim *float64 `json:"ra_claim,omitempty"`
	RAMM    *float64 `json:"ra_mm,omitempty"`
}

type RAODMCard struct {
	ODM              string               `json:"odm"`
	Trend            []RATrendPoint       `json:"trend"`
	TopModels        []RATopModel         `json:"top_models"`
	MonthlyTopModels []RAMonthlyTopModels `json:"monthly_top_models,omitempty"`
	AISummary        string               `json:"ai_summary"`
}

type RASegmentCard struct {
	Segment          string               `json:"segment"`
	Trend            []RATrendPoint       `json:"trend"`
	TopODMs          []RATopODM           `json:"top_odms"`
	TopModels        []RATopModel         `json:"top_models"`
	MonthlyTopODMs   []RAMonthlyTopODMs   `json:"monthly_top_odms,omitempty"`
	MonthlyTopModels []RAMonthlyTopModels `json:"monthly_top_models,omitempty"`
	AISummary        string               `json:"ai_summary"`
}

type RAModelCard struct {
	Model            string               `json:"model"`
	Trend            []RATrendPoint       `json:"trend"`
	TopIssues        []RATopIssue         `json:"top_issues"`
	MonthlyTopIssues []RAMonthlyTopIssues `json:"monthly_top_issues,omitempty"`
	AISummary        string               `json:"ai_summary"`
}

type RAODMSummary struct {
	ODMPie []RAODMPieItem `json:"odm_pie"`
}

type RASegmentSummary struct {
	SegmentPie []RASegmentPieItem `json:"segment_pie"`
}

type RAModelSummary struct {
	ModelPie []RAModelPieItem `json:"model_pie"`
}

type RAODMAnalysis struct {
	Meta    AnalyzeMeta   `json:"meta"`
	Cards   []RAODMCard   `json:"cards"`
	Summary *RAODMSummary `json:"summary,omitempty"`
}

type RASegmentAnalysis struct {
	Meta    AnalyzeMeta       `json:"meta"`
	Cards   []RASegmentCard   `json:"cards"`
	Summary *RASegmentSummary `json:"summary,omitempty"`
}

type RAModelAnalysis struct {
	Meta    AnalyzeMeta     `json:"meta"`
	Cards   []RAModelCard   `json:"cards"`
	Summary *RAModelSummary `json:"summary,omitempty"`
}

// RAView selects the sort order of the top-N tables.
type RAView struct {
	TopODMSort   TopSort `json:"top_odm_sort,omitempty"`
	TopModelSort TopSort `json:"top_model_sort,omitempty"`
}

type RAAnalyzeRequest struct {
	TimeRange TimeRange      `json:"time_range"`
	Filters   AnalyzeFilters `json:"filters"`
	View      *RAView        `json:"view,omitempty"`
}

// RAAPI wraps the /ra endpoints.
type RAAPI struct {
	c *Client
}

func (a *RAAPI) Options(ctx context.Context, filter OptionsFilter) (*Options, error) {
	var opts Options
	if err := a.c.get(ctx, "/ra/options", filter.query(), &opts); err != nil {
		return nil, err
	}
	return &opts, nil
}

func (a *RAAPI) AnalyzeODM(ctx context.Context, req RAAnalyzeRequest) (*RAODMAnalysis, error) {
	var out RAODMAnalysis
	if err := a.c.post(ctx, "/ra/odm-analysis/analyze", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *RAAPI) AnalyzeSegment(ctx context.Context, req RAAnalyzeRequest) (*RASegmentAnalysis, error) {
	var out RASegmentAnalysis
	if err := a.c.post(ctx, "/ra/segment-analysis/analyze", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *RAAPI) AnalyzeModel(ctx context.Context, req RAAnalyzeRequest) (*RAModelAnalysis, error) {
	var out RAModelAnalysis
	if err := a.c.post(ctx, "/ra/model-analysis/analyze", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
