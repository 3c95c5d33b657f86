package cmd

import (
	"context"
	"eventdesk/common/constant"
	"eventdesk/core/export"
	"eventdesk/model"
	"fmt"
	"log/slog"
	"os"
	"time"
)

type exportSubmissionsOptions struct {
	FormID          int64
	Status          string
	ParticipantType string
	Output          string
}

// runExportSubmissionsCmd writes every submission of a form to a CSV file,
// the same file the export endpoint serves.
func runExportSubmissionsCmd(ctx context.Context, opts exportSubmissionsOptions) error {
	cfg := newCfg("env")

	if opts.FormID <= 0 {
		return fmt.Errorf("form id must be positive, got %d", opts.FormID)
	}

	client := newBackend(cfg)

	ctx, cancel := context.WithTimeout(ctx, cfg.GetDuration("export.timeout"))
	defer cancel()

	formID := model.ID(opts.FormID)
	submissions, err := client.ListAllSubmissions(ctx, formID, model.SubmissionQuery{
		ListQuery:       model.ListQuery{PerPage: cfg.GetInt("export.per_page")},
		Status:          opts.Status,
		ParticipantType: opts.ParticipantType,
	})
	if err != nil {
		return fmt.Errorf("list submissions of form %d: %w", formID, err)
	}

	output := opts.Output
	if output == "" {
		output = export.FileName(fmt.Sprintf("form-%s-submissions", formID), time.Now())
	}

	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	defer file.Close()

	if err := export.WriteSubmissions(file, submissions); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	slog.InfoContext(ctx, "submissions exported",
		slog.String("file", output),
		slog.Int("rows", len(submissions)),
		slog.String(constant.LogFieldUpstream, "GET /forms/"+formID.String()+"/submissions"),
	)
	return nil
}
