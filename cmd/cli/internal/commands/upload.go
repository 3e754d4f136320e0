package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fieldkpi/qualdash/internal/api"
)

const uploadPath = "/upload"

// UploadCmd pushes dataset files and tracks ingest tasks.
type UploadCmd struct {
	Send   UploadSendCmd   `cmd:"" default:"withargs" help:"Upload dataset files"`
	Status UploadStatusCmd `cmd:"" help:"Show the status of an upload task"`
}

// UploadSendCmd uploads any subset of the four dataset files.
type UploadSendCmd struct {
	IfirDetail string `help:"IFIR detail workbook" type:"existingfile"`
	IfirRow    string `help:"IFIR row workbook" type:"existingfile"`
	RaDetail   string `help:"RA detail workbook" type:"existingfile"`
	RaRow      string `help:"RA row workbook" type:"existingfile"`
	JSON       bool   `help:"Output JSON"`
}

func (c *UploadSendCmd) Run(ctx context.Context, globals *Globals) error {
	named := []struct {
		field string
		path  string
	}{
		{api.PartIFIRDetail, c.IfirDetail},
		{api.PartIFIRRow, c.IfirRow},
		{api.PartRADetail, c.RaDetail},
		{api.PartRARow, c.RaRow},
	}

	var parts []api.FilePart
	for _, n := range named {
		if n.path == "" {
			continue
		}
		f, err := os.Open(n.path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", n.path, err)
		}
		defer f.Close()
		parts = append(parts, api.FilePart{
			Field:    n.field,
			Filename: filepath.Base(n.path),
			Content:  f,
		})
	}
	if len(parts) == 0 {
		return fmt.Errorf("nothing to upload: pass at least one of --ifir-detail, --ifir-row, --ra-detail, --ra-row")
	}

	app, err := buildApp(globals)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.visit(ctx, uploadPath); err != nil {
		return err
	}

	status, err := app.clients.Upload.Upload(ctx, parts)
	if err != nil {
		return err
	}

	if c.JSON {
		return printJSON(status)
	}
	printTaskStatus(status)
	return nil
}

// UploadStatusCmd fetches the state of one ingest task.
type UploadStatusCmd struct {
	TaskID string `arg:"" help:"Upload task ID"`
	JSON   bool   `help:"Output JSON"`
}

func (c *UploadStatusCmd) Run(ctx context.Context, globals *Globals) error {
	app, err := buildApp(globals)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.visit(ctx, uploadPath); err != nil {
		return err
	}

	status, err := app.clients.Upload.Status(ctx, c.TaskID)
	if err != nil {
		return err
	}

	if c.JSON {
		return printJSON(status)
	}
	printTaskStatus(status)
	return nil
}

func printTaskStatus(s *api.TaskStatus) {
	fmt.Printf("Task:      %s\n", s.TaskID)
	fmt.Printf("Status:    %s\n", s.Status)
	fmt.Printf("Progress:  %.0f%%\n", s.Progress)
	if s.ErrorMessage != nil && *s.ErrorMessage != "" {
		fmt.Printf("Error:     %s\n", *s.ErrorMessage)
	}

	files := []struct {
		label  string
		report *api.FileReport
	}{
		{api.PartIFIRDetail, s.IFIRDetail},
		{api.PartIFIRRow, s.IFIRRow},
		{api.PartRADetail, s.RADetail},
		{api.PartRARow, s.RARow},
	}
	for _, f := range files {
		if f.report == nil {
			continue
		}
		line := fmt.Sprintf("  %-12s %-12s %s", f.label, f.report.Status, f.report.Filename)
		if f.report.Rows != nil {
			line += fmt.Sprintf(" (%d rows)", *f.report.Rows)
		}
		if f.report.Error != nil && *f.report.Error != "" {
			line += " error: " + *f.report.Error
		}
		fmt.Println(line)
	}
}
