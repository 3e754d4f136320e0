package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fieldkpi/qualdash/internal/api"
)

// RaCmd analyzes the RA defect-rate KPI.
type RaCmd struct {
	Options RaOptionsCmd `cmd:"" help:"List selectable filters"`
	Odm     RaOdmCmd     `cmd:"" help:"Analyze by ODM"`
	Segment RaSegmentCmd `cmd:"" help:"Analyze by segment"`
	Model   RaModelCmd   `cmd:"" help:"Analyze by model"`
}

type RaOptionsCmd struct {
	optionsFlags
}

func (c *RaOptionsCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := buildApp(globals)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.visit(ctx, "/kpi/ra/odm-analysis"); err != nil {
		return err
	}

	opts, err := app.clients.RA.Options(ctx, c.filter())
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(opts)
	}
	printOptions(opts)
	return nil
}

type RaOdmCmd struct {
	analyzeFlags
	TopModelSort string `help:"Sort top models by claim count or RA rate" enum:"claim,ra,"`
}

func (c *RaOdmCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := buildApp(globals)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.visit(ctx, "/kpi/ra/odm-analysis"); err != nil {
		return err
	}

	req := api.RAAnalyzeRequest{
		TimeRange: c.timeRange(),
		Filters:   c.filters(),
	}
	if c.TopModelSort != "" {
		req.View = &api.RAView{TopModelSort: api.TopSort(c.TopModelSort)}
	}

	out, err := app.clients.RA.AnalyzeODM(ctx, req)
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(out)
	}

	printMeta(out.Meta)
	for _, card := range out.Cards {
		fmt.Printf("\nODM: %s\n", card.ODM)
		printRaTrend(card.Trend)
		printRaTopModels(card.TopModels)
		printSummaryText(card.AISummary)
	}
	return nil
}

type RaSegmentCmd struct {
	analyzeFlags
	TopOdmSort   string `help:"Sort top ODMs by claim count or RA rate" enum:"claim,ra,"`
	TopModelSort string `help:"Sort top models by claim count or RA rate" enum:"claim,ra,"`
}

func (c *RaSegmentCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := buildApp(globals)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.visit(ctx, "/kpi/ra/segment-analysis"); err != nil {
		return err
	}

	req := api.RAAnalyzeRequest{
		TimeRange: c.timeRange(),
		Filters:   c.filters(),
	}
	if c.TopOdmSort != "" || c.TopModelSort != "" {
		req.View = &api.RAView{
			TopODMSort:   api.TopSort(c.TopOdmSort),
			TopModelSort: api.TopSort(c.TopModelSort),
		}
	}

	out, err := app.clients.RA.AnalyzeSegment(ctx, req)
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(out)
	}

	printMeta(out.Meta)
	for _, card := range out.Cards {
		fmt.Printf("\nSegment: %s\n", card.Segment)
		printRaTrend(card.Trend)
		printRaTopModels(card.TopModels)
		printSummaryText(card.AISummary)
	}
	return nil
}

type RaModelCmd struct {
	analyzeFlags
}

func (c *RaModelCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := buildApp(globals)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.visit(ctx, "/kpi/ra/model-analysis"); err != nil {
		return err
	}

	out, err := app.clients.RA.AnalyzeModel(ctx, api.RAAnalyzeRequest{
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
		fmt.Printf("\nModel: %s\n", card.Model)
		printRaTrend(card.Trend)
		if len(card.TopIssues) > 0 {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "  RANK\tISSUE\tCOUNT")
			for _, it := range card.TopIssues {
				fmt.Fprintf(w, "  %d\t%s\t%d\n", it.Rank, it.Issue, it.Count)
			}
			w.Flush()
		}
		printSummaryText(card.AISummary)
	}
	return nil
}

func printRaTrend(trend []api.RATrendPoint) {
	if len(trend) == 0 {
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  MONTH\tRA")
	for _, p := range trend {
		fmt.Fprintf(w, "  %s\t%.4f\n", p.Month, p.RA)
	}
	w.Flush()
}

func printRaTopModels(items []api.RATopModel) {
	if len(items) == 0 {
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  RANK\tMODEL\tRA\tRA CLAIM\tRA MM")
	for _, it := range items {
		fmt.Fprintf(w, "  %d\t%s\t%.4f\t%.0f\t%.0f\n", it.Rank, it.Model, it.RA, it.RAClaim, it.RAMM)
	}
	w.Flush()
}
