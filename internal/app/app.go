package app

import (
	"context"
	"io"
	"log/slog"
	"time"

	"hubstaff-report/internal/adapter/hubstaff"
	"hubstaff-report/internal/config"
	"hubstaff-report/internal/domain"
	"hubstaff-report/internal/report"
	"hubstaff-report/internal/usecase"
)

// App wires adapters and use cases.
type App struct {
	log      *slog.Logger
	cfg      config.Config
	renderer *report.HTMLRenderer
	// Now is the clock used to resolve default dates.
	Now func() time.Time
}

func New(log *slog.Logger, cfg config.Config) (*App, error) {
	renderer, err := report.NewHTMLRenderer()
	if err != nil {
		return nil, err
	}
	return &App{log: log, cfg: cfg, renderer: renderer, Now: time.Now}, nil
}

// Generate renders the report for r into w. Each call signs in with a fresh client.
func (a *App) Generate(ctx context.Context, r domain.DateRange, w io.Writer) error {
	client := hubstaff.NewClient(a.cfg.Credentials(), a.cfg.Hubstaff.Timeout, a.log)
	uc := &usecase.ReportUseCase{
		Log:      a.log,
		Hubstaff: client,
		Renderer: a.renderer,
	}
	return uc.Run(ctx, r, w)
}
