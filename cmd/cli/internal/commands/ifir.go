package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fieldkpi/qualdash/internal/api"
)

// analyzeFlags are the filters shared by every analysis command.
type analyzeFlags struct {
	Start    string   `help:"Start month (YYYY-MM)" required:""`
	End      string   `help:"End month (YYYY-MM)" required:""`
	Odms     []string `help:"ODM filter"`
	Segments []string `help:"Segment filter"`
	Models   []string `help:"Model filter"`
	JSON     bool     `help:"Output raw JSON"`
}

func (f *analyzeFlags) timeRange() api.TimeRange {
	return api.TimeRange{StartMonth: f.Start, EndMonth: f.End}
}

func (f *analyzeFlags) filters() api.AnalyzeFilters {
	return api.AnalyzeFilters{ODMs: f.Odms, Segments: f.Segments, Models: f.Models}
}

// optionsFlags narrow an options lookup.
type optionsFlags struct {
	Odms     []string `help:"ODM filter"`
	Segments []string `help:"Segment filter"`
	Models   []string `help:"Model filter"`
	JSON     bool     `help:"Output raw JSON"`
}

func (f *optionsFlags) filter() api.OptionsFilter {
	return api.OptionsFilter{ODMs: f.Odms, Segments: f.Segments, Models: f.Models}
}

// IfirCmd analyzes the IFIR defect-rate KPI.
type IfirCmd struct {
	Options IfirOptionsCmd `cmd:"" help:"List selectable filters"`
	Odm     IfirOdmCmd     `cmd:"" help:"Analyze by ODM"`
	Segment IfirSegmentCmd `cmd:"" help:"Analyze by segment"`
	Model   IfirModelCmd   `cmd:"" help:"Analyze by model"`
	Issues  IfirIssuesCmd  `cmd:"" help:"List claim-level issue details for one model"`
}

type IfirOptionsCmd struct {
	optionsFlags
}

func (c *IfirOptionsCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := buildApp(globals)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.visit(ctx, "/kpi/ifir/odm-analysis"); err != nil {
		return err
	}

	opts, err := app.clients.IFIR.Options(ctx, c.filter())
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(opts)
	}
	printOptions(opts)
	return nil
}

type IfirOdmCmd struct {
	analyzeFlags
}

func (c *IfirOdmCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := buildApp(globals)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.visit(ctx, "/kpi/ifir/odm-analysis"); err != nil {
		return err
	}

	out, err := app.clients.IFIR.AnalyzeODM(ctx, api.IFIRAnalyzeRequest{
		TimeRange: c.timeRange(),
		Filters:   c.filters(),
	})
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(out)
	}

	printMeta(out.Meta)
	for _, card := range out.Cards {
		fmt.Printf("\nODM: %s\n", card.ODM)
		printIfirTrend(card.Trend)
		printIfirTopModels(card.TopModels)
		printSummaryText(card.AISummary)
	}
	return nil
}

type IfirSegmentCmd struct {
	analyzeFlags
}

func (c *IfirSegmentCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := buildApp(globals)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.visit(ctx, "/kpi/ifir/segment-analysis"); err != nil {
		return err
	}

	out, err := app.clients.IFIR.AnalyzeSegment(ctx, api.IFIRAnalyzeRequest{
		TimeRange: c.timeRange(),
		Filters:   c.filters(),
	})
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(out)
	}

	printMeta(out.Meta)
	for _, card := range out.Cards {
		fmt.Printf("\nSegment: %s\n", card.Segment)
		printIfirTrend(card.Trend)
		printIfirTopModels(card.TopModels)
		printSummaryText(card.AISummary)
	}
	return nil
}

type IfirModelCmd struct {
	analyzeFlags
	TrendMonths int `help:"Trend window in months"`
}

func (c *IfirModelCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := buildApp(globals)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.visit(ctx, "/kpi/ifir/model-analysis"); err != nil {
		return err
	}

	req := api.IFIRAnalyzeRequest{
		TimeRange: c.timeRange(),
		Filters:   c.filters(),
	}
	if c.TrendMonths > 0 {
		req.View = &api.IFIRView{TrendMonths: c.TrendMonths}
	}

	out, err := app.clients.IFIR.AnalyzeModel(ctx, req)
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(out)
	}

	printMeta(out.Meta)
	for _, card := range out.Cards {
		fmt.Printf("\nModel: %s\n", card.Model)
		printIfirTrend(card.Trend)
		if len(card.TopIssues) > 0 {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "  RANK\tFAULT CATEGORY\tCOUNT\tPERCENTAGE")
			for _, it := range card.TopIssues {
				fmt.Fprintf(w, "  %d\t%s\t%d\t%.1f%%\n", it.Rank, it.FaultCategory, it.Count, it.Percentage)
			}
			w.Flush()
		}
		printSummaryText(card.AISummary)
	}
	return nil
}

type IfirIssuesCmd struct {
	Start    string   `help:"Start month (YYYY-MM)" required:""`
	End      string   `help:"End month (YYYY-MM)" required:""`
	Model    string   `help:"Model name" required:""`
	Issue    string   `help:"Fault category" required:""`
	Segments []string `help:"Segment filter"`
	Odms     []string `help:"ODM filter"`
	Page     int      `help:"Page number" default:"1"`
	PageSize int      `help:"Page size" default:"10"`
	JSON     bool     `help:"Output raw JSON"`
}

func (c *IfirIssuesCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := buildApp(globals)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.visit(ctx, "/kpi/ifir/model-analysis"); err != nil {
		return err
	}

	out, err := app.clients.IFIR.IssueDetails(ctx, api.IFIRIssueDetailsRequest{
		TimeRange: api.TimeRange{StartMonth: c.Start, EndMonth: c.End},
		Filters: api.IFIRIssueFilters{
			Model:    c.Model,
			Issue:    c.Issue,
			Segments: c.Segments,
			ODMs:     c.Odms,
		},
		Pagination: &api.Pagination{Page: c.Page, PageSize: c.PageSize},
	})
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(out)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CLAIM\tMONTH\tMODEL\tFAULT CATEGORY\tPLANT\tDESCRIPTION")
	for _, row := range out.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			row.ClaimNbr, row.ClaimMonth, row.Model, row.FaultCategory,
			orDash(row.Plant), orDash(row.ProblemDescrByTech))
	}
	w.Flush()

	fmt.Printf("\nPage %d, %d of %d claims.\n", out.Page, len(out.Items), out.Total)
	return nil
}

func printMeta(meta api.AnalyzeMeta) {
	fmt.Printf("Data as of %s, %s to %s.\n",
		meta.DataAsOf, meta.TimeRange.StartMonth, meta.TimeRange.EndMonth)
}

func printOptions(opts *api.Options) {
	fmt.Printf("Months:    %s to %s\n", opts.TimeRange.MinMonth, opts.TimeRange.MaxMonth)
	fmt.Printf("ODMs:      %d\n", len(opts.ODMs))
	for _, o := range opts.ODMs {
		fmt.Printf("  %s\n", o)
	}
	fmt.Printf("Segments:  %d\n", len(opts.Segments))
	for _, s := range opts.Segments {
		fmt.Printf("  %s\n", s)
	}
	fmt.Printf("Models:    %d\n", len(opts.Models))
	for _, m := range opts.Models {
		fmt.Printf("  %s\n", m)
	}
}

func printSummaryText(summary string) {
	if summary != "" {
		fmt.Printf("  Summary: %s\n", summary)
	}
}

func printIfirTrend(trend []api.IFIRTrendPoint) {
	if len(trend) == 0 {
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  MONTH\tIFIR\tBOX CLAIM\tBOX MM")
	for _, p := range trend {
		fmt.Fprintf(w, "  %s\t%.4f\t%.0f\t%.0f\n", p.Month, p.IFIR, p.BoxClaim, p.BoxMM)
	}
	w.Flush()
}

func printIfirTopModels(items []api.IFIRTopModel) {
	if len(items) == 0 {
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  RANK\tMODEL\tIFIR\tBOX CLAIM\tBOX MM")
	for _, it := range items {
		fmt.Fprintf(w, "  %d\t%s\t%.4f\t%.0f\t%.0f\n", it.Rank, it.Model, it.IFIR, it.BoxClaim, it.BoxMM)
	}
	w.Flush()
}
