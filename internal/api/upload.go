package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
)

// Dataset part names accepted by POST /upload.
const (
	PartIFIRDetail = "ifir_detail"
	PartIFIRRow    = "ifir_row"
	PartRADetail   = "ra_detail"
	PartRARow      = "ra_row"
)

// FilePart is one named dataset file in an upload.
type FilePart struct {
	Field    string
	Filename string
	Content  io.Reader
}

// FileReport is the per-file outcome inside a task status.
type FileReport struct {
	Filename string  `json:"filename"`
	Status   string  `json:"status"` // pending, processing, completed, failed
	Rows     *int    `json:"rows,omitempty"`
	Error    *string `json:"error,omitempty"`
}

// TaskStatus is the state of one upload/ingest task.
type TaskStatus struct {
	TaskID       string      `json:"task_id"`
	Status       string      `json:"status"` // queued, processing, completed, failed
	Progress     float64     `json:"progress"`
	IFIRDetail   *FileReport `json:"ifir_detail,omitempty"`
	IFIRRow      *FileReport `json:"ifir_row,omitempty"`
	RADetail     *FileReport `json:"ra_detail,omitempty"`
	RARow        *FileReport `json:"ra_row,omitempty"`
	ErrorMessage *string     `json:"error_message,omitempty"`
	CreatedAt    string      `json:"created_at"`
	StartedAt    *string     `json:"started_at,omitempty"`
	CompletedAt  *string     `json:"completed_at,omitempty"`
}

// UploadAPI wraps the /upload endpoints.
type UploadAPI struct {
	c *Client
}

// Upload pushes up to four named dataset files in one multipart request.
func (u *UploadAPI) Upload(ctx context.Context, parts []FilePart) (*TaskStatus, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("at least one dataset file is required")
	}

	var status TaskStatus
	err := u.c.postMultipart(ctx, "/upload", func(w *multipart.Writer) error {
		for _, p := range parts {
			fw, err := w.CreateFormFile(p.Field, p.Filename)
			if err != nil {
				return err
			}
			if _, err := io.Copy(fw, p.Content); err != nil {
				return fmt.Errorf("failed to read %s: %w", p.Filename, err)
			}
		}
		return nil
	}, &status)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// Status fetches the state of an upload task.
func (u *UploadAPI) Status(ctx context.Context, taskID string) (*TaskStatus, error) {
	var status TaskStatus
	if err := u.c.get(ctx, "/upload/"+url.PathEscape(taskID)+"/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
