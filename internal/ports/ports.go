package ports

import (
	"context"
	"io"

	"hubstaff-report/internal/domain"
)

// HubstaffClient defines methods to fetch tracked time from Hubstaff.
type HubstaffClient interface {
	Authenticate(ctx context.Context) error
	ListOrganizations(ctx context.Context) ([]domain.Organization, error)
	ListDailyActivities(ctx context.Context, organizationID int64, r domain.DateRange) (domain.DailyActivities, error)
}

// Renderer turns a report into a document.
type Renderer interface {
	Render(w io.Writer, r domain.Report) error
}
