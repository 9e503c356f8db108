package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"hubstaff-report/internal/domain"
)

//go:embed templates/report.html
var templatesFS embed.FS

// HTMLRenderer implements ports.Renderer with a self-contained HTML document.
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer parses the embedded report template.
func NewHTMLRenderer() (*HTMLRenderer, error) {
	funcs := template.FuncMap{
		"duration": FormatDuration,
	}
	tmpl, err := template.New("report.html").Funcs(funcs).ParseFS(templatesFS, "templates/report.html")
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

type view struct {
	Title         string
	Empty         bool
	Total         time.Duration
	Organizations []domain.Summary
}

func (h *HTMLRenderer) Render(w io.Writer, r domain.Report) error {
	v := view{
		Title:         "Hubstaff report " + r.Range.String(),
		Empty:         r.Empty(),
		Total:         r.Total(),
		Organizations: r.Organizations,
	}
	return h.tmpl.Execute(w, v)
}

// FormatDuration renders d as H:MM:SS, truncated to whole seconds.
func FormatDuration(d time.Duration) string {
	secs := int64(d / time.Second)
	sign := ""
	if secs < 0 {
		sign = "-"
		secs = -secs
	}
	return fmt.Sprintf("%s%d:%02d:%02d", sign, secs/3600, secs%3600/60, secs%60)
}
