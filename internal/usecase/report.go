package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"hubstaff-report/internal/domain"
	"hubstaff-report/internal/ports"
)

// ReportUseCase coordinates fetching tracked time from Hubstaff and rendering the report.
type ReportUseCase struct {
	Log      *slog.Logger
	Hubstaff ports.HubstaffClient
	Renderer ports.Renderer
}

// Build collects one summary per organization for the range.
func (uc *ReportUseCase) Build(ctx context.Context, r domain.DateRange) (domain.Report, error) {
	if uc.Hubstaff == nil {
		return domain.Report{}, errors.New("usecase not initialized: missing hubstaff client")
	}
	uc.Log.Info("authenticating")
	if err := uc.Hubstaff.Authenticate(ctx); err != nil {
		return domain.Report{}, err
	}

	orgs, err := uc.Hubstaff.ListOrganizations(ctx)
	if err != nil {
		return domain.Report{}, err
	}
	uc.Log.Info("fetched organizations", slog.Int("count", len(orgs)))

	rep := domain.Report{Range: r}
	for _, org := range orgs {
		acts, err := uc.Hubstaff.ListDailyActivities(ctx, org.ID, r)
		if err != nil {
			return domain.Report{}, fmt.Errorf("organization %q: %w", org.Name, err)
		}
		summary := domain.Summarize(org, acts)
		uc.Log.Info("fetched daily activities",
			slog.String("organization", org.Name),
			slog.Int("entries", len(acts.Entries)),
			slog.Duration("tracked", summary.Total),
		)
		rep.Organizations = append(rep.Organizations, summary)
	}
	return rep, nil
}

// Run builds the report for r and writes the rendered document to w.
// Nothing is written when any step fails.
func (uc *ReportUseCase) Run(ctx context.Context, r domain.DateRange, w io.Writer) error {
	if uc.Renderer == nil {
		return errors.New("usecase not initialized: missing renderer")
	}
	uc.Log.Info("generating report", slog.String("date_start", r.StartString()), slog.String("date_end", r.EndString()))

	rep, err := uc.Build(ctx, r)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := uc.Renderer.Render(&buf, rep); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	uc.Log.Info("report generated", slog.Int("organizations", len(rep.Organizations)), slog.Duration("tracked", rep.Total()))
	return nil
}
