package api

import "context"

// IFIR (initial field incident rate) analysis payloads. Shapes mirror the
// backend schemas; IFIR and RA carry different metric columns, so the two
// domains keep separate types.

type IFIRTrendPoint struct {
	Month    string  `json:"month"`
	IFIR     float64 `json:"ifir"`
	BoxClaim float64 `json:"box_claim"`
	BoxMM    float64 `json:"box_mm"`
}

type IFIRTopModel struct {
	Rank     int     `json:"rank"`
	Model    string  `json:"model"`
	IFIR     float64 `json:"ifir"`
	BoxClaim float64 `json:"box_claim"`
	BoxMM    float64 `json:"box_mm"`
}

type IFIRTopODM struct {
	Rank     int     `json:"rank"`
	ODM      string  `json:"odm"`
	IFIR     float64 `json:"ifir"`
	BoxClaim float64 `json:"box_claim"`
	BoxMM    float64 `json:"box_mm"`
}

type IFIRTopIssue struct {
	Rank          int     `json:"rank"`
	FaultCategory string  `json:"fault_category"`
	Count         int     `json:"count"`
	Percentage    float64 `json:"percentage"`
}

type IFIRMonthlyTopModels struct {
	Month string         `json:"month"`
	Items []IFIRTopModel `json:"items"`
}

type IFIRMonthlyTopODMs struct {
	Month string       `json:"month"`
	Items []IFIRTopODM `json:"items"`
}

type IFIRMonthlyTopIssues struct {
	Month string         `json:"month"`
	Items []IFIRTopIssue `json:"items"`
}

type IFIRODMPieItem struct {
	ODM      string   `json:"odm"`
	IFIR     float64  `json:"ifir"`
	Share    float64  `json:"share"`
	BoxClaim *float64 `json:"box_claim,omitempty"`
	BoxMM    *float64 `json:"box_mm,omitempty"`
}

type IFIRSegmentPieItem struct {
	Segment  string   `json:"segment"`
	IFIR     float64  `json:"ifir"`
	Share    float64  `json:"share"`
	BoxClaim *float64 `json:"box_claim,omitempty"`
	BoxMM    *float64 `json:"box_mm,omitempty"`
}

type IFIRModelPieItem struct {
	Model    string   `json:"model"`
	IFIR     float64  `json:"ifir"`
	Share    float64  `json:"share"`
	BoxClaim *float64 `json:"box_claim,omitempty"`
	BoxMM    *float64 `json:"box_mm,omitempty"`
}

type IFIRODMCard struct {
	ODM              string                 `json:"odm"`
	Trend            []IFIRTrendPoint       `json:"trend"`
	TopModels        []IFIRTopModel         `json:"top_models"`
	MonthlyTopModels []IFIRMonthlyTopModels `json:"monthly_top_models,omitempty"`
	AISummary        string                 `json:"ai_summary"`
}

type IFIRSegmentCard struct {
	Segment          string                 `json:"segment"`
	Trend            []IFIRTrendPoint       `json:"trend"`
	TopODMs          []IFIRTopODM           `json:"top_odms"`
	TopModels        []IFIRTopModel         `json:"top_models"`
	MonthlyTopODMs   []IFIRMonthlyTopODMs   `json:"monthly_top_odms,omitempty"`
	MonthlyTopModels []IFIRMonthlyTopModels `json:"monthly_top_models,omitempty"`
	AISummary        string                 `json:"ai_summary"`
}

type IFIRModelCard struct {
	Model            string                 `json:"model"`
	Trend            []IFIRTrendPoint       `json:"trend"`
	TopIssues        []IFIRTopIssue         `json:"top_issues"`
	MonthlyTopIssues []IFIRMonthlyTopIssues `json:"monthly_top_issues,omitempty"`
	AISummary        string                 `json:"ai_summary"`
}

type IFIRODMSummary struct {
	ODMPie []IFIRODMPieItem `json:"odm_pie"`
}

type IFIRSegmentSummary struct {
	SegmentPie []IFIRSegmentPieItem `json:"segment_pie"`
}

type IFIRModelSummary struct {
	ModelPie []IFIRModelPieItem `json:"model_pie"`
}

type IFIRODMAnalysis struct {
	Meta    AnalyzeMeta     `json:"meta"`
	Cards   []IFIRODMCard   `json:"cards"`
	Summary *IFIRODMSummary `json:"summary,omitempty"`
}

type IFIRSegmentAnalysis struct {
	Meta    AnalyzeMeta         `json:"meta"`
	Cards   []IFIRSegmentCard   `json:"cards"`
	Summary *IFIRSegmentSummary `json:"summary,omitempty"`
}

type IFIRModelAnalysis struct {
	Meta    AnalyzeMeta       `json:"meta"`
	Cards   []IFIRModelCard   `json:"cards"`
	Summary *IFIRModelSummary `json:"summary,omitempty"`
}

// IFIRView tunes the model analysis; TrendMonths widens the trend window.
type IFIRView struct {
	TrendMonths int `json:"trend_months,omitempty"`
}

type IFIRAnalyzeRequest struct {
	TimeRange TimeRange      `json:"time_range"`
	Filters   AnalyzeFilters `json:"filters"`
	View      *IFIRView      `json:"view,omitempty"`
}

// IFIRIssueFilters pins issue details to one model and fault category.
type IFIRIssueFilters struct {
	Model    string   `json:"model"`
	Issue    string   `json:"issue"`
	Segments []string `json:"segments,omitempty"`
	ODMs     []string `json:"odms,omitempty"`
}

type IFIRIssueDetailsRequest struct {
	TimeRange  TimeRange        `json:"time_range"`
	Filters    IFIRIssueFilters `json:"filters"`
	Pagination *Pagination      `json:"pagination,omitempty"`
}

type IFIRIssueDetailRow struct {
	Model              string  `json:"model"`
	FaultCategory      string  `json:"fault_category"`
	ProblemDescrByTech *string `json:"problem_descr_by_tech,omitempty"`
	ClaimNbr           string  `json:"claim_nbr"`
	ClaimMonth         string  `json:"claim_month"`
	Plant              *string `json:"plant,omitempty"`
}

type IFIRIssueDetails struct {
	Total    int                  `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
	Items    []IFIRIssueDetailRow `json:"items"`
}

// IFIRAPI wraps the /ifir endpoints.
type IFIRAPI struct {
	c *Client
}

func (a *IFIRAPI) Options(ctx context.Context, filter OptionsFilter) (*Options, error) {
	var opts Options
	if err := a.c.get(ctx, "/ifir/options", filter.query(), &opts); err != nil {
		return nil, err
	}
	return &opts, nil
}

func (a *IFIRAPI) AnalyzeODM(ctx context.Context, req IFIRAnalyzeRequest) (*IFIRODMAnalysis, error) {
	var out IFIRODMAnalysis
	if err := a.c.post(ctx, "/ifir/odm-analysis/analyze", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *IFIRAPI) AnalyzeSegment(ctx context.Context, req IFIRAnalyzeRequest) (*IFIRSegmentAnalysis, error) {
	var out IFIRSegmentAnalysis
	if err := a.c.post(ctx, "/ifir/segment-analysis/analyze", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *IFIRAPI) AnalyzeModel(ctx context.Context, req IFIRAnalyzeRequest) (*IFIRModelAnalysis, error) {
	var out IFIRModelAnalysis
	if err := a.c.post(ctx, "/ifir/model-analysis/analyze", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *IFIRAPI) IssueDetails(ctx context.Context, req IFIRIssueDetailsRequest) (*IFIRIssueDetails, error) {
	var out IFIRIssueDetails
	if err := a.c.post(ctx, "/ifir/model-analysis/issue-details", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
