//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"hubstaff-report/internal/app"
	"hubstaff-report/internal/config"
	"hubstaff-report/internal/domain"
)

// startHubstaff runs WireMock loaded with the mappings under testdata/mappings.
func startHubstaff(t *testing.T, ctx context.Context) string {
	t.Helper()
	mappings, err := filepath.Glob("testdata/mappings/*.json")
	if err != nil || len(mappings) == 0 {
		t.Fatalf("no wiremock mappings found: %v", err)
	}
	var files []testcontainers.ContainerFile
	for _, m := range mappings {
		abs, err := filepath.Abs(m)
		if err != nil {
			t.Fatalf("abs %s: %v", m, err)
		}
		files = append(files, testcontainers.ContainerFile{
			HostFilePath:      abs,
			ContainerFilePath: "/home/wiremock/mappings/" + filepath.Base(m),
			FileMode:          0o644,
		})
	}

	req := testcontainers.ContainerRequest{
		Image:        "wiremock/wiremock:3.9.1",
		ExposedPorts: []string{"8080/tcp"},
		Files:        files,
		WaitingFor:   wait.ForHTTP("/__admin/mappings").WithPort("8080/tcp").WithStartupTimeout(90 * time.Second),
	}
	wm, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start wiremock container: %v", err)
	}
	t.Cleanup(func() { _ = wm.Terminate(context.Background()) })

	host, err := wm.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := wm.MappedPort(ctx, "8080/tcp")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}
	return fmt.Sprintf("http://%s:%s", host, port.Port())
}

func newApp(t *testing.T, baseURL, appToken string) *app.App {
	t.Helper()
	var cfg config.Config
	cfg.Hubstaff.BaseURL = baseURL
	cfg.Hubstaff.Email = "test@example.com"
	cfg.Hubstaff.Password = "password"
	cfg.Hubstaff.AppToken = appToken
	cfg.Hubstaff.Timeout = 10 * time.Second

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	a, err := app.New(logger, cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return a
}

func TestGenerateReportAgainstHubstaff(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in short mode")
	}
	ctx := context.Background()
	baseURL := startHubstaff(t, ctx)

	rng, err := domain.ResolveDateRange("2024-09-02", "2024-09-03", time.Now())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	var out bytes.Buffer
	if err := newApp(t, baseURL, "e2e-app").Generate(ctx, rng, &out); err != nil {
		t.Fatalf("generate: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out.String()))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	orgs := doc.Find("section.organization h2").Map(func(_ int, s *goquery.Selection) string { return s.Text() })
	if len(orgs) != 2 || orgs[0] != "Organization 1" || orgs[1] != "Organization 2" {
		t.Fatalf("unexpected organizations %v", orgs)
	}
	// Both pages of organization 1: 3600s + 1800s.
	if got := doc.Find("td.organization-total").First().Text(); got != "1:30:00" {
		t.Fatalf("expected organization total 1:30:00, got %q", got)
	}
	if got := doc.Find("#report-total .duration").Text(); got != "1:30:00" {
		t.Fatalf("expected report total 1:30:00, got %q", got)
	}
}

func TestGenerateReportRejectedAppToken(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in short mode")
	}
	ctx := context.Background()
	baseURL := startHubstaff(t, ctx)

	rng, _ := domain.ResolveDateRange("2024-09-02", "", time.Now())
	var out bytes.Buffer
	err := newApp(t, baseURL, "wrong-app").Generate(ctx, rng, &out)
	if !errors.Is(err, domain.ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %d bytes", out.Len())
	}
}
